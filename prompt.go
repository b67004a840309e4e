package mindmap

// PromptAction is how a prompt was resolved.
type PromptAction uint8

const (
	PromptCancelled PromptAction = iota // Escape, or the prompt was dismissed
	PromptConfirmed                     // Enter or the OK button
	PromptDeleted                       // the delete button
)

// String returns a short name for logs.
func (a PromptAction) String() string {
	switch a {
	case PromptConfirmed:
		return "confirmed"
	case PromptDeleted:
		return "deleted"
	default:
		return "cancelled"
	}
}

// PromptConfig describes one label prompt.
type PromptConfig struct {
	Title       string
	Initial     string
	Placeholder string
	ShowDelete  bool
	// RequireText keeps the prompt open when confirmed with empty text.
	RequireText bool
}

// PromptOutcome is the resolution of a prompt. Text is set for PromptConfirmed.
type PromptOutcome struct {
	Action PromptAction
	Text   string
}

// Prompter displays a modal label prompt. Show must not block; the returned
// channel yields exactly one outcome, or is closed without a value, which is
// treated as cancellation.
type Prompter interface {
	Show(cfg PromptConfig) <-chan PromptOutcome
}

// promptSlot allows a single outstanding prompt.
type promptSlot struct {
	ch      <-chan PromptOutcome
	resolve func(PromptOutcome)
}

func (s *promptSlot) busy() bool { return s.ch != nil }

func (s *promptSlot) open(p Prompter, cfg PromptConfig, resolve func(PromptOutcome)) error {
	if p == nil {
		return ErrNoPrompter
	}
	if s.busy() {
		return ErrPromptBusy
	}
	s.ch = p.Show(cfg)
	s.resolve = resolve
	return nil
}

// poll delivers a ready outcome to the resolver without blocking. It reports
// whether the slot was resolved.
func (s *promptSlot) poll() bool {
	if s.ch == nil {
		return false
	}
	var out PromptOutcome
	select {
	case o, ok := <-s.ch:
		if ok {
			out = o
		}
	default:
		return false
	}
	resolve := s.resolve
	s.ch, s.resolve = nil, nil
	resolve(out)
	return true
}

// PendingRegion tracks a region waiting on its label prompt.
type PendingRegion struct {
	rect Rect
	done chan *Region
}

// Rect returns the normalized rectangle the region will cover.
func (p *PendingRegion) Rect() Rect { return p.rect }

// Done yields the committed region, or nil if the prompt was cancelled or
// answered with an empty label. It receives exactly one value.
func (p *PendingRegion) Done() <-chan *Region { return p.done }

// promptAndCommit asks for a label for rect and commits a new region once a
// non-empty label arrives. The commit happens inside Poll on the event
// goroutine.
func (c *Controller) promptAndCommit(rect Rect) (*PendingRegion, error) {
	pending := &PendingRegion{rect: rect, done: make(chan *Region, 1)}
	cfg := PromptConfig{
		Title:       "New region",
		Placeholder: "Enter research direction name",
		RequireText: true,
	}
	err := c.prompt.open(c.prompter, cfg, func(out PromptOutcome) {
		if out.Action != PromptConfirmed {
			pending.done <- nil
			return
		}
		r := NewRegion(rect, out.Text)
		if err := c.d.AddRegion(r); err != nil {
			pending.done <- nil
			return
		}
		pending.done <- r
	})
	if err != nil {
		return nil, err
	}
	return pending, nil
}
