package health

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/realtime"
)

func TestMonitorReport(t *testing.T) {
	hub := realtime.NewHub(4)
	id, events := hub.Register()
	defer hub.Unregister(id)

	m := NewMonitor(hub)
	if st := m.Status(); !st.Healthy || st.Diagnostics != 0 {
		t.Fatalf("expected healthy initial status, got %+v", st)
	}

	before := testutil.ToFloat64(diagnosticsTotal.WithLabelValues("index", "load"))
	m.Report(core.NewDiagnostic("index", "load", errors.New("connection refused")))

	st := m.Status()
	if st.Healthy || st.Counts["index"] != 1 || len(st.Recent) != 1 {
		t.Errorf("unexpected status %+v", st)
	}
	if got := testutil.ToFloat64(diagnosticsTotal.WithLabelValues("index", "load")); got != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, got)
	}

	select {
	case ev := <-events:
		if ev.Type != realtime.TypeDiagnostic || ev.Diagnostic.Component != "index" {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("diagnostic not published")
	}
}

func TestMonitorKeepsRecent(t *testing.T) {
	m := NewMonitor(nil)
	for i := 0; i < MaxRecent+5; i++ {
		m.Report(core.NewDiagnostic("storage", "persist", fmt.Errorf("failure %d", i)))
	}
	st := m.Status()
	if len(st.Recent) != MaxRecent {
		t.Fatalf("expected %d recent diagnostics, got %d", MaxRecent, len(st.Recent))
	}
	if st.Recent[0].Err != "failure 5" {
		t.Errorf("expected oldest kept diagnostic to be failure 5, got %s", st.Recent[0].Err)
	}
	if st.Diagnostics != MaxRecent+5 {
		t.Errorf("expected total %d, got %d", MaxRecent+5, st.Diagnostics)
	}
}

func TestObserveSearch(t *testing.T) {
	searches := testutil.ToFloat64(searchesTotal)
	empty := testutil.ToFloat64(noResultSearchesTotal)

	ObserveSearch(3)
	ObserveSearch(0)

	if got := testutil.ToFloat64(searchesTotal); got != searches+2 {
		t.Errorf("expected 2 more searches, got %v", got-searches)
	}
	if got := testutil.ToFloat64(noResultSearchesTotal); got != empty+1 {
		t.Errorf("expected 1 more empty search, got %v", got-empty)
	}

	clicks := testutil.ToFloat64(clicksTotal)
	ObserveClick()
	if got := testutil.ToFloat64(clicksTotal); got != clicks+1 {
		t.Errorf("expected 1 more click, got %v", got-clicks)
	}

	SetIndexDocuments(42)
	if got := testutil.ToFloat64(indexDocuments); got != 42 {
		t.Errorf("expected 42 documents, got %v", got)
	}
}
