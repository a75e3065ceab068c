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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/blinklabs-io/govrealm/governance"
	"github.com/blinklabs-io/govrealm/ledger"
	"github.com/google/uuid"
)

const (
	requestIdHeader = "X-Request-Id"
	maxBodySize     = 1 << 20
)

type contextKey struct{}

// withRequestId tags each request and response with a request ID,
// reusing one supplied by the client
func (s *Server) withRequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqId := r.Header.Get(requestIdHeader)
		if _, err := uuid.Parse(reqId); err != nil {
			reqId = uuid.NewString()
		}
		w.Header().Set(requestIdHeader, reqId)
		logger := s.logger.With("request_id", reqId)
		next.ServeHTTP(w, r.WithContext(contextWithLogger(r.Context(), logger)))
	})
}

func contextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	if logger, ok := r.Context().Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return s.logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errStr string, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    uint32(status), //nolint:gosec // HTTP status codes are small
		Error:   errStr,
		Message: message,
	})
}

// writeLedgerError maps a ledger error onto an HTTP response
func (s *Server) writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	if gErr, ok := governance.AsError(err); ok {
		status := http.StatusUnprocessableEntity
		switch gErr {
		case governance.ErrGoverningTokenOwnerOrDelegateMustSign:
			status = http.StatusForbidden
		case governance.ErrTransactionAlreadyExists:
			status = http.StatusConflict
		case governance.ErrProposalTransactionNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, ErrorResponse{
			Code:    gErr.Code(),
			Error:   gErr.Kind(),
			Message: gErr.Error(),
		})
		return
	}
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "AccountNotFound", err.Error())
	case errors.Is(err, governance.ErrMissingAccount):
		writeError(w, http.StatusBadRequest, "MissingAccount", err.Error())
	default:
		s.requestLogger(r).Error(
			"request failed",
			"path", r.URL.Path,
			"error", err,
		)
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			"failed to process request",
		)
	}
}

func (s *Server) proposalFromPath(w http.ResponseWriter, r *http.Request) (governance.PublicKey, bool) {
	proposal, err := governance.ParsePublicKey(r.PathValue("proposal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid proposal address")
		return governance.PublicKey{}, false
	}
	return proposal, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			fmt.Sprintf("invalid request body: %s", err),
		)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{IsHealthy: true})
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	address, ok := s.proposalFromPath(w, r)
	if !ok {
		return
	}
	proposal, err := s.node.GetProposal(r.Context(), address)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	address, ok := s.proposalFromPath(w, r)
	if !ok {
		return
	}
	txs, err := s.node.GetProposalTransactions(r.Context(), address)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	if txs == nil {
		txs = []*governance.ProposalTransaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleInsertTransaction(w http.ResponseWriter, r *http.Request) {
	address, ok := s.proposalFromPath(w, r)
	if !ok {
		return
	}
	var body InsertTransactionRequest
	if !decodeBody(w, r, &body) {
		return
	}
	ptx, err := s.node.InsertTransaction(
		r.Context(),
		ledger.InsertTransactionRequest{
			Governance:       body.Governance,
			Proposal:         address,
			TokenOwnerRecord: body.TokenOwnerRecord,
			Signer:           body.Signer,
			OptionIndex:      body.OptionIndex,
			Index:            body.Index,
			HoldUpTime:       body.HoldUpTime,
			Actions:          body.Actions,
		},
	)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	w.Header().Set(
		"Location",
		fmt.Sprintf(
			"/api/v1/proposals/%s/transactions/%d/%d",
			address,
			ptx.OptionIndex,
			ptx.TransactionIndex,
		),
	)
	writeJSON(w, http.StatusCreated, ptx)
}

// slotFromPath parses the option and transaction index path values
func slotFromPath(w http.ResponseWriter, r *http.Request) (uint8, uint16, bool) {
	option, err := strconv.ParseUint(r.PathValue("option"), 10, 8)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid option index")
		return 0, 0, false
	}
	index, err := strconv.ParseUint(r.PathValue("index"), 10, 16)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid transaction index")
		return 0, 0, false
	}
	return uint8(option), uint16(index), true
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	address, ok := s.proposalFromPath(w, r)
	if !ok {
		return
	}
	option, index, ok := slotFromPath(w, r)
	if !ok {
		return
	}
	ptx, err := s.node.GetProposalTransaction(r.Context(), address, option, index)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ptx)
}

func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	address, ok := s.proposalFromPath(w, r)
	if !ok {
		return
	}
	option, index, ok := slotFromPath(w, r)
	if !ok {
		return
	}
	var body RemoveTransactionRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.node.RemoveTransaction(
		r.Context(),
		ledger.RemoveTransactionRequest{
			Proposal:         address,
			TokenOwnerRecord: body.TokenOwnerRecord,
			Signer:           body.Signer,
			OptionIndex:      option,
			Index:            index,
		},
	); err != nil {
		s.writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
