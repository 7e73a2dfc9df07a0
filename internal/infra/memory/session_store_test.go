package memory

import (
	"context"
	"testing"
	"time"

	"awsprep-assessment-service/internal/app"
	"awsprep-assessment-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	session := app.NewSession("a1", "0xabc", sampleCorpus(), time.Now())
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "a1")
	if err != nil || !ok {
		t.Fatalf("expected session present, ok=%v err=%v", ok, err)
	}
	if got.ID() != "a1" {
		t.Fatalf("unexpected session %s", got.ID())
	}

	if err := got.RecordAnswer(domain.Answer{QuestionID: "q1", Selected: domain.SelectSingle("B")}); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := store.Delete(ctx, "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "a1"); ok {
		t.Fatalf("expected session removed")
	}
}
