package jobs

import "testing"

func TestRegistrySnapshots(t *testing.T) {
	registry := NewRegistry()
	registry.Put(Job{Key: "k1", Username: "Frodo", Status: StatusPending})

	snapshot, ok := registry.Get("k1")
	if !ok {
		t.Fatal("expected job")
	}

	// Mutating the snapshot must not leak into the registry.
	snapshot.Username = "changed"
	stored, _ := registry.Get("k1")
	if stored.Username != "Frodo" {
		t.Fatalf("snapshot mutation leaked: %q", stored.Username)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewRegistry()
	if _, ok := registry.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestRegistryProgressMonotonic(t *testing.T) {
	registry := NewRegistry()
	registry.Put(Job{Key: "k1", Progress: 40})

	registry.Update("k1", func(j *Job) { j.Progress = 25 })
	job, _ := registry.Get("k1")
	if job.Progress != 40 {
		t.Fatalf("progress regressed to %v", job.Progress)
	}

	registry.Update("k1", func(j *Job) { j.Progress = 55 })
	job, _ = registry.Get("k1")
	if job.Progress != 55 {
		t.Fatalf("expected 55, got %v", job.Progress)
	}
}

func TestRegistryUpdateUnknown(t *testing.T) {
	registry := NewRegistry()
	if registry.Update("missing", func(j *Job) { j.Progress = 1 }) {
		t.Fatal("expected Update to report a miss")
	}
}

func TestRegistrySingleFlight(t *testing.T) {
	registry := NewRegistry()

	if !registry.AcquireIdentity("frodo", "k1") {
		t.Fatal("first acquire should succeed")
	}
	if registry.AcquireIdentity("frodo", "k2") {
		t.Fatal("second acquire for same identity should fail")
	}
	if !registry.AcquireIdentity("sam", "k3") {
		t.Fatal("different identity should be independent")
	}

	// Release by a non-owner must not free the slot.
	registry.ReleaseIdentity("frodo", "k2")
	if registry.AcquireIdentity("frodo", "k4") {
		t.Fatal("slot freed by non-owner release")
	}

	registry.ReleaseIdentity("frodo", "k1")
	if !registry.AcquireIdentity("frodo", "k5") {
		t.Fatal("expected acquire after owner release")
	}
}

func TestStatusTerminal(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusPending:          false,
		StatusRenderingOverlay: false,
		StatusCompositing:      false,
		StatusReady:            true,
		StatusFailed:           true,
	} {
		if got := status.IsTerminal(); got != want {
			t.Fatalf("%s: IsTerminal=%v, want %v", status, got, want)
		}
	}
}
