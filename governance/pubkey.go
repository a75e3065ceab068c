// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package governance

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const PublicKeySize = 32

var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKey identifies an account. Its text form is base58.
type PublicKey [PublicKeySize]byte

func NewPublicKey(data []byte) (PublicKey, error) {
	var ret PublicKey
	if len(data) != PublicKeySize {
		return ret, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidPublicKey,
			PublicKeySize,
			len(data),
		)
	}
	copy(ret[:], data)
	return ret, nil
}

// ParsePublicKey decodes a base58 encoded public key
func ParsePublicKey(s string) (PublicKey, error) {
	if s == "" {
		return PublicKey{}, fmt.Errorf("%w: empty string", ErrInvalidPublicKey)
	}
	data := base58.Decode(s)
	if len(data) == 0 {
		return PublicKey{}, fmt.Errorf("%w: %q is not base58", ErrInvalidPublicKey, s)
	}
	return NewPublicKey(data)
}

// MustParsePublicKey is ParsePublicKey for constants and tests
func MustParsePublicKey(s string) PublicKey {
	k, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k PublicKey) String() string {
	return base58.Encode(k[:])
}

func (k PublicKey) Bytes() []byte {
	return k[:]
}

func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PublicKey) UnmarshalText(data []byte) error {
	tmp, err := ParsePublicKey(string(data))
	if err != nil {
		return err
	}
	*k = tmp
	return nil
}
