package generation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/launchlab/productforge/checklist"
	"github.com/launchlab/productforge/content"
	"github.com/launchlab/productforge/models"
)

type fakeClient struct {
	mu    sync.Mutex
	calls int
	resp  *Response
	err   error

	// Optional rendezvous channels to hold a call open mid-flight.
	entered chan struct{}
	release chan struct{}
}

func (c *fakeClient) Generate(_ context.Context, _ Request) (*Response, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.entered != nil {
		c.entered <- struct{}{}
	}
	if c.release != nil {
		<-c.release
	}
	return c.resp, c.err
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestOrchestrator(client Client) (*Orchestrator, *content.Manager, *checklist.Gate) {
	contentMgr := content.NewManager(&models.Product{
		ID:   "6f1b0a1e-1111-4a6b-9d3e-000000000005",
		Name: "Test Guide",
		Type: models.ProductTypeContent,
	})
	gate := checklist.NewGate(false)
	return NewOrchestrator(client, contentMgr, gate), contentMgr, gate
}

func TestRunOutlineAppliesResponse(t *testing.T) {
	client := &fakeClient{resp: &Response{
		Outline: &models.ContentOutline{
			Chapters: []models.Chapter{
				{Title: "One"},
				{Title: "Two"},
			},
		},
	}}
	o, contentMgr, _ := newTestOrchestrator(client)

	if err := o.Run(context.Background(), models.IntentOutline, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	outline := contentMgr.Outline()
	if outline == nil || len(outline.Chapters) != 2 {
		t.Fatalf("outline not applied: %+v", outline)
	}
	if outline.Chapters[0].Number != 1 || outline.Chapters[1].Number != 2 {
		t.Fatalf("chapter numbers not normalized: %+v", outline.Chapters)
	}
	if state := o.States()[models.IntentOutline]; state.Status != IntentIdle {
		t.Fatalf("intent state after success = %+v, want idle", state)
	}
}

func TestRunRejectsSameIntentWhileInFlight(t *testing.T) {
	client := &fakeClient{
		resp:    &Response{Outline: &models.ContentOutline{Chapters: []models.Chapter{{Title: "One"}}}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	o, _, _ := newTestOrchestrator(client)

	done := make(chan error, 1)
	go func() {
		done <- o.Run(context.Background(), models.IntentOutline, "")
	}()
	<-client.entered // first request is now in flight

	err := o.Run(context.Background(), models.IntentOutline, "")
	var busy *BusyError
	if !errors.As(err, &busy) {
		t.Fatalf("second run error = %v, want BusyError", err)
	}
	if busy.Intent != models.IntentOutline {
		t.Fatalf("busy error names intent %s, want %s", busy.Intent, models.IntentOutline)
	}

	close(client.release)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if got := client.callCount(); got != 1 {
		t.Fatalf("client called %d times, want 1", got)
	}
}

func TestRunFailureLeavesModelUntouched(t *testing.T) {
	client := &fakeClient{err: errors.New("service down")}
	o, contentMgr, _ := newTestOrchestrator(client)

	err := o.Run(context.Background(), models.IntentOutline, "")
	if err == nil {
		t.Fatal("expected the client failure to propagate")
	}
	if contentMgr.Outline() != nil {
		t.Fatal("failed generation mutated the content model")
	}

	state := o.States()[models.IntentOutline]
	if state.Status != IntentError || state.LastError == "" {
		t.Fatalf("intent state after failure = %+v, want error with message", state)
	}

	// An errored intent is not stuck: the next run goes through.
	client.err = nil
	client.resp = &Response{Outline: &models.ContentOutline{Chapters: []models.Chapter{{Title: "One"}}}}
	if err := o.Run(context.Background(), models.IntentOutline, ""); err != nil {
		t.Fatalf("run after error failed: %v", err)
	}
	if state := o.States()[models.IntentOutline]; state.Status != IntentIdle || state.LastError != "" {
		t.Fatalf("intent state not reset after success: %+v", state)
	}
}

func TestRunChapterContentUnknownChapterIsNoOp(t *testing.T) {
	client := &fakeClient{}
	o, contentMgr, _ := newTestOrchestrator(client)
	contentMgr.ApplyOutline(models.ContentOutline{Chapters: []models.Chapter{{ID: "c1", Title: "One"}}})

	if err := o.Run(context.Background(), models.IntentChapterContent, "discarded-id"); err != nil {
		t.Fatalf("no-op run returned error: %v", err)
	}
	if got := client.callCount(); got != 0 {
		t.Fatalf("client called %d times for a no-op, want 0", got)
	}
}

func TestRunAllChaptersWithoutOutlineIsNoOp(t *testing.T) {
	client := &fakeClient{}
	o, _, _ := newTestOrchestrator(client)

	if err := o.Run(context.Background(), models.IntentAllChapters, ""); err != nil {
		t.Fatalf("no-op run returned error: %v", err)
	}
	if got := client.callCount(); got != 0 {
		t.Fatalf("client called %d times for a no-op, want 0", got)
	}
}

func TestRunAllChaptersMergesPerChapterAndMarksContent(t *testing.T) {
	client := &fakeClient{}
	o, contentMgr, gate := newTestOrchestrator(client)
	contentMgr.ApplyOutline(models.ContentOutline{Chapters: []models.Chapter{
		{ID: "c1", Title: "One", KeyPoints: []string{"kp"}},
		{ID: "c2", Title: "Two"},
	}})

	client.resp = &Response{Outline: &models.ContentOutline{Chapters: []models.Chapter{
		{ID: "c1", Title: "Renamed By Service", Content: "Body one."},
		{ID: "c2", Content: "Body two."},
	}}}

	if err := o.Run(context.Background(), models.IntentAllChapters, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Merge is per chapter, never a wholesale replace: local titles and key
	// points survive.
	ch, ok := contentMgr.FindChapter("c1")
	if !ok {
		t.Fatal("chapter c1 missing after merge")
	}
	if ch.Title != "One" || len(ch.KeyPoints) != 1 {
		t.Fatalf("merge replaced non-generated fields: %+v", ch)
	}
	if ch.Content != "Body one." {
		t.Fatalf("content not merged: %q", ch.Content)
	}

	if !contentMgr.AllChaptersComplete() {
		t.Fatal("chapters not complete after all-chapters merge")
	}
	if !gate.Flags().ContentComplete {
		t.Fatal("content flag not marked after all chapters completed")
	}
}

// Once every checklist flag is set, regenerating the outline must not revoke
// readiness: the gate only ever ratchets forward.
func TestOutlineRegenerationKeepsChecklistReady(t *testing.T) {
	client := &fakeClient{resp: &Response{
		Outline: &models.ContentOutline{Chapters: []models.Chapter{
			{Title: "Fresh One"},
			{Title: "Fresh Two"},
		}},
	}}
	o, contentMgr, gate := newTestOrchestrator(client)
	contentMgr.ApplyOutline(models.ContentOutline{Chapters: []models.Chapter{
		{ID: "c1", Title: "One", Content: "Done."},
	}})

	gate.MarkContentComplete()
	gate.MarkStructureComplete()
	gate.MarkAssetsReady()
	gate.MarkPricingSet()
	gate.MarkPreviewReviewed()
	if !gate.Ready() {
		t.Fatal("gate not ready with all five flags set")
	}

	if err := o.Run(context.Background(), models.IntentOutline, ""); err != nil {
		t.Fatalf("regeneration failed: %v", err)
	}

	// The outline was replaced wholesale with incomplete chapters, yet the
	// user's prior confirmations stand.
	if contentMgr.AllChaptersComplete() {
		t.Fatal("fresh outline unexpectedly complete; test setup is wrong")
	}
	if !gate.Ready() {
		t.Fatal("regenerating the outline revoked export readiness")
	}
}

func TestRunStructureMarksStructureComplete(t *testing.T) {
	client := &fakeClient{resp: &Response{
		Structure: &models.ProductStructure{Parts: []models.Part{{Title: "Part 1"}}},
	}}
	o, contentMgr, gate := newTestOrchestrator(client)

	if err := o.Run(context.Background(), models.IntentStructure, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if contentMgr.Structure() == nil {
		t.Fatal("structure not applied")
	}
	if !gate.Flags().StructureComplete {
		t.Fatal("structure flag not marked")
	}
}
