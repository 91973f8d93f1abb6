package services

import (
	"errors"
	"fmt"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

var (
	ErrNoImages         = errors.New("extraction returned no images")
	ErrIndexOutOfBounds = errors.New("image index out of bounds")
)

// Navigator is the cursor over the current image sequence. It is either
// Empty (no sequence) or Positioned with 0 <= index < len(images).
type Navigator struct {
	images []shared.ImageCandidate
	index  int
	manual bool
}

// Load replaces the sequence. Once the user has navigated manually the
// current index is kept and suggested is ignored; either way the index must
// fit the new sequence. On failure the navigator is left Empty.
func (n *Navigator) Load(images []shared.ImageCandidate, suggested int) error {
	idx := suggested
	if n.manual {
		idx = n.index
	}

	if len(images) == 0 {
		n.Cleanup()
		return ErrNoImages
	}
	if idx < 0 || idx >= len(images) {
		n.Cleanup()
		return fmt.Errorf("%w: index %d with %d image(s)", ErrIndexOutOfBounds, idx, len(images))
	}

	n.images = images
	n.index = idx
	return nil
}

// StepNext moves forward unless already on the last image. It reports
// whether the index changed.
func (n *Navigator) StepNext() bool {
	if n.Empty() {
		return false
	}
	n.manual = true
	if n.index < len(n.images)-1 {
		n.index++
		return true
	}
	return false
}

// StepPrev moves back unless already on the first image.
func (n *Navigator) StepPrev() bool {
	if n.Empty() {
		return false
	}
	n.manual = true
	if n.index > 0 {
		n.index--
		return true
	}
	return false
}

// Cleanup returns to Empty and forgets manual navigation.
func (n *Navigator) Cleanup() {
	n.images = nil
	n.index = 0
	n.manual = false
}

func (n *Navigator) Empty() bool {
	return len(n.images) == 0
}

// Selected returns the image under the cursor; ok is false when Empty.
func (n *Navigator) Selected() (shared.ImageCandidate, bool) {
	if n.Empty() {
		return shared.ImageCandidate{}, false
	}
	return n.images[n.index], true
}

func (n *Navigator) Affordances() domain.Affordances {
	if n.Empty() {
		return domain.Affordances{}
	}
	return domain.Affordances{
		Prev: n.index > 0,
		Next: n.index < len(n.images)-1,
	}
}

func (n *Navigator) Index() int   { return n.index }
func (n *Navigator) Len() int     { return len(n.images) }
func (n *Navigator) Manual() bool { return n.manual }
