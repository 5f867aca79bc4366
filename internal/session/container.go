// Package session holds the shared runtime state of the app: the intake
// form, the generated scenario, and the currently selected exercise.
// Screens read from and write through the Container; it owns
// persistence and change notification.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/heymarley/writebot/internal/profile"
	"github.com/heymarley/writebot/internal/scenario"
	"github.com/heymarley/writebot/internal/store"
)

// formDebounceDelay is how long form edits are coalesced before they
// are persisted and observers are notified.
const formDebounceDelay = 500 * time.Millisecond

// Container is the single source of truth for session state. All
// methods are safe for concurrent use.
type Container struct {
	mu sync.Mutex

	form    profile.FormRecord
	hasForm bool

	scenarioData *scenario.Result
	selected     *scenario.Exercise

	generating bool
	errMsg     string

	// genSeq, startSeq, and chatSeq invalidate stale async responses:
	// only the most recently issued token may apply its result.
	genSeq   uint64
	startSeq uint64
	chatSeq  uint64

	records   store.Records
	debouncer *Debouncer
	observers []func()
}

// New creates a Container backed by the given record store. The saved
// form is restored; any persisted scenario is deleted rather than
// restored, so every run starts without a stale scenario.
func New(records store.Records) *Container {
	c := &Container{
		form:      profile.Defaults(),
		records:   records,
		debouncer: NewDebouncer(formDebounceDelay),
	}
	if records != nil {
		ctx := context.Background()
		if rec, found := records.LoadForm(ctx); found {
			c.form = rec
			c.hasForm = true
		}
		_ = records.DeleteScenario(ctx)
	}
	return c
}

// Subscribe registers fn to be called after state changes. Callbacks
// run outside the container lock.
func (c *Container) Subscribe(fn func()) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

func (c *Container) notify() {
	c.mu.Lock()
	obs := make([]func(), len(c.observers))
	copy(obs, c.observers)
	c.mu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

// FormData returns the current form and whether one was ever set or
// restored.
func (c *Container) FormData() (profile.FormRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form, c.hasForm
}

// UpdateFormData replaces the form. Persistence and observer
// notification are debounced behind a single timer, so a burst of
// keystrokes commits once. If the stored scenario was generated from a
// different form, it is discarded immediately, including its persisted
// copy. A scenario without a recorded form key is adopted by the
// current form instead of being discarded.
func (c *Container) UpdateFormData(rec profile.FormRecord) {
	c.mu.Lock()
	c.form = rec
	c.hasForm = true
	c.errMsg = ""

	key := rec.Fingerprint()
	var drop, adopt bool
	if c.scenarioData != nil {
		switch {
		case c.scenarioData.FormKey == "":
			c.scenarioData.FormKey = key
			adopt = true
		case c.scenarioData.FormKey != key:
			c.scenarioData = nil
			c.selected = nil
			drop = true
		}
	}
	adopted := c.scenarioData
	c.mu.Unlock()

	ctx := context.Background()
	if c.records != nil {
		if drop {
			_ = c.records.DeleteScenario(ctx)
		}
		if adopt {
			_ = c.records.SaveScenario(ctx, *adopted)
		}
	}

	c.debouncer.Set(func() {
		c.mu.Lock()
		form := c.form
		c.mu.Unlock()
		if c.records != nil {
			_ = c.records.SaveForm(context.Background(), form)
		}
		c.notify()
	})
}

// FlushForm commits any pending debounced form write immediately.
// Screens call it before navigating away.
func (c *Container) FlushForm() {
	c.debouncer.Flush()
}

// ScenarioData returns the current scenario, or nil.
func (c *Container) ScenarioData() *scenario.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenarioData
}

// UpdateScenarioData replaces the scenario and persists the change at
// once. The scenario is stamped with the current form's fingerprint so
// later form edits can detect staleness. Passing nil clears it.
func (c *Container) UpdateScenarioData(res *scenario.Result) {
	c.mu.Lock()
	if res != nil && res.FormKey == "" {
		res.FormKey = c.form.Fingerprint()
	}
	c.scenarioData = res
	c.errMsg = ""
	if res == nil {
		c.selected = nil
	}
	c.mu.Unlock()

	ctx := context.Background()
	if c.records != nil {
		if res == nil {
			_ = c.records.DeleteScenario(ctx)
		} else {
			_ = c.records.SaveScenario(ctx, *res)
		}
	}
	c.notify()
}

// BeginGenerate marks generation in progress and returns a token that
// must accompany the eventual result. Issuing a new token invalidates
// all previous ones. The current scenario and selection are destroyed
// before the new request goes out, in memory and on disk, so a failed
// regeneration cannot resurrect the old scenario.
func (c *Container) BeginGenerate() uint64 {
	c.mu.Lock()
	c.genSeq++
	token := c.genSeq
	c.generating = true
	c.errMsg = ""
	dropped := c.scenarioData != nil
	c.scenarioData = nil
	c.selected = nil
	c.mu.Unlock()

	if dropped && c.records != nil {
		_ = c.records.DeleteScenario(context.Background())
	}
	c.notify()
	return token
}

// ApplyGenerate applies a generation outcome. Stale tokens are ignored
// so a superseded request cannot clobber newer state. It reports
// whether the result was applied.
func (c *Container) ApplyGenerate(token uint64, res *scenario.Result, errMsg string) bool {
	c.mu.Lock()
	if token != c.genSeq {
		c.mu.Unlock()
		return false
	}
	c.generating = false
	c.errMsg = errMsg
	var persist *scenario.Result
	if errMsg == "" && res != nil {
		if res.FormKey == "" {
			res.FormKey = c.form.Fingerprint()
		}
		c.scenarioData = res
		c.selected = nil
		persist = res
	}
	c.mu.Unlock()

	if persist != nil && c.records != nil {
		_ = c.records.SaveScenario(context.Background(), *persist)
	}
	c.notify()
	return true
}

// Generating reports whether a scenario request is in flight.
func (c *Container) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating
}

// BeginStart returns a token for an exercise-start request, invalidating
// previous ones.
func (c *Container) BeginStart() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startSeq++
	return c.startSeq
}

// StartCurrent reports whether token is still the latest exercise-start
// request.
func (c *Container) StartCurrent(token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return token == c.startSeq
}

// BeginChat returns a token for a chat send, invalidating previous ones.
func (c *Container) BeginChat() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chatSeq++
	return c.chatSeq
}

// ChatCurrent reports whether token is still the latest chat send.
func (c *Container) ChatCurrent(token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return token == c.chatSeq
}

// Error returns the current error message, if any.
func (c *Container) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// SetError records an error message for display.
func (c *Container) SetError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.generating = false
	c.mu.Unlock()
	c.notify()
}

// ClearError clears any displayed error.
func (c *Container) ClearError() {
	c.mu.Lock()
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()
}

// SelectExercise records which exercise the learner picked. Passing nil
// clears the selection.
func (c *Container) SelectExercise(ex *scenario.Exercise) {
	c.mu.Lock()
	c.selected = ex
	c.mu.Unlock()
	c.notify()
}

// SelectedExercise returns the picked exercise, or nil.
func (c *Container) SelectedExercise() *scenario.Exercise {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// ClearAll wipes the form, scenario, and selection, both in memory and
// on disk.
func (c *Container) ClearAll() {
	c.debouncer.Stop()
	c.mu.Lock()
	c.form = profile.Defaults()
	c.hasForm = false
	c.scenarioData = nil
	c.selected = nil
	c.errMsg = ""
	c.mu.Unlock()

	if c.records != nil {
		ctx := context.Background()
		_ = c.records.DeleteForm(ctx)
		_ = c.records.DeleteScenario(ctx)
	}
	c.notify()
}
