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

package event_test

import (
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/govrealm/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEventBusSingleSubscriber(t *testing.T) {
	var testEvtData int = 999
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, testEvtData))
	select {
	case evt, ok := <-subCh:
		require.True(t, ok, "event channel closed unexpectedly")
		assert.Equal(t, testEvtData, evt.Data)
		assert.Equal(t, testEvtType, evt.Type)
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for event")
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, sub1Ch := eb.Subscribe(testEvtType)
	_, sub2Ch := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, "hello"))
	for _, ch := range []<-chan event.Event{sub1Ch, sub2Ch} {
		select {
		case evt := <-ch:
			assert.Equal(t, "hello", evt.Data)
		case <-time.After(1 * time.Second):
			t.Fatalf("timeout waiting for event")
		}
	}
}

func TestEventBusOtherTypeNotDelivered(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe("a")
	eb.Publish("b", event.NewEvent("b", nil))
	select {
	case evt := <-subCh:
		t.Fatalf("unexpected event: %#v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	subId, subCh := eb.Subscribe(testEvtType)
	eb.Unsubscribe(testEvtType, subId)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, 1))
	_, ok := <-subCh
	assert.False(t, ok, "channel should be closed after unsubscribe")
	// Unsubscribing twice is a no-op
	eb.Unsubscribe(testEvtType, subId)
}

func TestEventBusSubscribeFunc(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	var wg sync.WaitGroup
	var got []any
	var mu sync.Mutex
	wg.Add(3)
	eb.SubscribeFunc(testEvtType, func(evt event.Event) {
		mu.Lock()
		got = append(got, evt.Data)
		mu.Unlock()
		wg.Done()
	})
	for i := range 3 {
		eb.Publish(testEvtType, event.NewEvent(testEvtType, i))
	}
	wg.Wait()
	eb.Stop()
	assert.Equal(t, []any{0, 1, 2}, got)
}

func TestEventBusPublishAsync(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe(testEvtType)
	require.True(
		t,
		eb.PublishAsync(testEvtType, event.NewEvent(testEvtType, "async")),
	)
	select {
	case evt := <-subCh:
		assert.Equal(t, "async", evt.Data)
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for async event")
	}
}

func TestEventBusStop(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	_, subCh := eb.Subscribe(testEvtType)
	eb.Stop()
	_, ok := <-subCh
	assert.False(t, ok, "channel should be closed after stop")
	assert.False(
		t,
		eb.PublishAsync(testEvtType, event.NewEvent(testEvtType, nil)),
	)
	// Publishing and stopping again after stop must not panic
	eb.Publish(testEvtType, event.NewEvent(testEvtType, nil))
	eb.Stop()
}

func TestEventBusMetrics(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	reg := prometheus.NewRegistry()
	eb := event.NewEventBus(reg, nil)
	defer eb.Stop()
	subId, subCh := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, nil))
	<-subCh
	eb.Unsubscribe(testEvtType, subId)
	count, err := testutil.GatherAndCount(reg, "event_bus_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
