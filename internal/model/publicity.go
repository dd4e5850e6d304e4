package model

// Publicity is the pair of moderation flags that decide whether a comment
// is shown. It is captured as a value before a save so the post-save hook
// can detect what actually changed.
type Publicity struct {
	IsPublic  bool `json:"is_public"`
	IsRemoved bool `json:"is_removed"`
}

func (p Publicity) Visible() bool {
	return p.IsPublic && !p.IsRemoved
}

type Transition int

const (
	NoChange Transition = iota
	BecameVisible
	BecameHidden
)

func (t Transition) String() string {
	switch t {
	case BecameVisible:
		return "became_visible"
	case BecameHidden:
		return "became_hidden"
	default:
		return "no_change"
	}
}

// DetectTransition compares the pre-save flags with the post-save ones.
// A nil prior means no snapshot was captured (brand-new comment, or the
// pre-save hook never ran): the comment counts as newly visible when it
// ends up visible, and as no change otherwise, so a fresh visible comment
// increments counters exactly once.
func DetectTransition(prior *Publicity, current Publicity) Transition {
	if prior == nil {
		if current.Visible() {
			return BecameVisible
		}
		return NoChange
	}

	wasVisible := prior.Visible()
	isVisible := current.Visible()
	switch {
	case !wasVisible && isVisible:
		return BecameVisible
	case wasVisible && !isVisible:
		return BecameHidden
	default:
		return NoChange
	}
}
