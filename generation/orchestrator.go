package generation

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/launchlab/productforge/checklist"
	"github.com/launchlab/productforge/content"
	"github.com/launchlab/productforge/models"
)

// IntentStatus is the explicit per-intent state the orchestrator owns.
type IntentStatus string

const (
	IntentIdle    IntentStatus = "idle"
	IntentRunning IntentStatus = "running"
	IntentError   IntentStatus = "error"
)

// IntentState is the reportable state of one intent.
type IntentState struct {
	Status    IntentStatus `json:"status"`
	LastError string       `json:"lastError,omitempty"`
}

// BusyError rejects a second request of an intent type already in flight.
type BusyError struct {
	Intent models.GenerationIntent
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("a %s generation request is already in flight", e.Intent)
}

// Orchestrator turns one user intent into exactly one outbound generation
// request and one merge. Requests of the same intent type are rejected while
// one is in flight; different intent types may run concurrently. On failure
// the content model is left untouched and the error names the intent.
type Orchestrator struct {
	mu      sync.Mutex
	client  Client
	content *content.Manager
	gate    *checklist.Gate
	states  map[models.GenerationIntent]*IntentState
}

func NewOrchestrator(client Client, contentMgr *content.Manager, gate *checklist.Gate) *Orchestrator {
	states := make(map[models.GenerationIntent]*IntentState, len(models.GenerationIntents))
	for _, intent := range models.GenerationIntents {
		states[intent] = &IntentState{Status: IntentIdle}
	}
	return &Orchestrator{
		client:  client,
		content: contentMgr,
		gate:    gate,
		states:  states,
	}
}

// Run executes one generation intent to completion. chapterID is required for
// chapter-content and ignored otherwise. Precondition failures (no outline
// yet, unknown chapter) are no-op guards, not errors.
func (o *Orchestrator) Run(ctx context.Context, intent models.GenerationIntent, chapterID string) error {
	req, ok, err := o.buildRequest(intent, chapterID)
	if err != nil {
		return err
	}
	if !ok {
		// Precondition not met; nothing to generate.
		return nil
	}

	if err := o.begin(intent); err != nil {
		return err
	}

	resp, err := o.client.Generate(ctx, req)
	if err != nil {
		o.finish(intent, err)
		log.Printf("ERROR (Orchestrator): %s generation failed: %v", intent, err)
		return fmt.Errorf("%s generation failed: %w", intent, err)
	}

	if err := o.merge(intent, chapterID, resp); err != nil {
		o.finish(intent, err)
		return fmt.Errorf("%s generation failed: %w", intent, err)
	}

	o.finish(intent, nil)
	log.Printf("INFO (Orchestrator): %s generation completed", intent)
	return nil
}

// States returns a snapshot of every intent's state.
func (o *Orchestrator) States() map[models.GenerationIntent]IntentState {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[models.GenerationIntent]IntentState, len(o.states))
	for intent, state := range o.states {
		out[intent] = *state
	}
	return out
}

func (o *Orchestrator) begin(intent models.GenerationIntent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	state := o.states[intent]
	if state.Status == IntentRunning {
		return &BusyError{Intent: intent}
	}
	state.Status = IntentRunning
	state.LastError = ""
	return nil
}

func (o *Orchestrator) finish(intent models.GenerationIntent, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	state := o.states[intent]
	if err != nil {
		state.Status = IntentError
		state.LastError = err.Error()
		return
	}
	state.Status = IntentIdle
}

// buildRequest shapes the outbound request from the current model. The second
// return value is false when a precondition makes the intent a no-op.
func (o *Orchestrator) buildRequest(intent models.GenerationIntent, chapterID string) (Request, bool, error) {
	product := o.content.Product()
	reqCtx := RequestContext{
		ProductName:    product.Name,
		ProductType:    product.Type,
		Description:    product.Description,
		TargetAudience: product.RawAnalysis.TargetAudience,
	}

	switch intent {
	case models.IntentOutline, models.IntentStructure:
		return Request{Intent: intent, Context: reqCtx}, true, nil
	case models.IntentChapterContent:
		ch, found := o.content.FindChapter(chapterID)
		if !found {
			log.Printf("INFO (Orchestrator): Skipping chapter-content generation, chapter %q not in outline", chapterID)
			return Request{}, false, nil
		}
		reqCtx.ChapterID = ch.ID
		reqCtx.ChapterTitle = ch.Title
		reqCtx.ChapterDescription = ch.Description
		reqCtx.KeyPoints = ch.KeyPoints
		return Request{Intent: intent, Context: reqCtx}, true, nil
	case models.IntentAllChapters:
		if o.content.Outline() == nil {
			log.Printf("INFO (Orchestrator): Skipping all-chapters generation, no outline present")
			return Request{}, false, nil
		}
		return Request{Intent: intent, Context: reqCtx}, true, nil
	default:
		return Request{}, false, fmt.Errorf("unknown generation intent %q", intent)
	}
}

// merge applies a successful response to the content model and advances the
// checklist flags the result satisfies.
func (o *Orchestrator) merge(intent models.GenerationIntent, chapterID string, resp *Response) error {
	switch intent {
	case models.IntentOutline:
		if resp.Outline == nil {
			return fmt.Errorf("generation service returned no outline")
		}
		o.content.ApplyOutline(*resp.Outline)
	case models.IntentStructure:
		if resp.Structure == nil {
			return fmt.Errorf("generation service returned no structure")
		}
		o.content.ApplyStructure(*resp.Structure)
		o.gate.MarkStructureComplete()
	case models.IntentChapterContent:
		if resp.Chapter == nil {
			return fmt.Errorf("generation service returned no chapter content")
		}
		o.content.ApplyChapterContent(chapterID, *resp.Chapter)
	case models.IntentAllChapters:
		if resp.Outline == nil {
			return fmt.Errorf("generation service returned no chapters")
		}
		// Merge per chapter rather than replacing the outline: a concurrent
		// single-chapter merge may have landed while this was in flight, and
		// chapter titles and key points must survive regardless.
		for _, ch := range resp.Outline.Chapters {
			if !ch.IsComplete() {
				continue
			}
			o.content.ApplyChapterContent(ch.ID, models.ChapterContent{
				Content:            ch.Content,
				WordCount:          ch.WordCount,
				ReadingTimeMinutes: ch.ReadingTimeMinutes,
				KeyTakeaways:       ch.KeyTakeaways,
			})
		}
	}

	if o.content.AllChaptersComplete() {
		o.gate.MarkContentComplete()
	}
	return nil
}
