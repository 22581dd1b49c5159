// Package composer models the admin composer form as an explicit state
// machine: sign-in, editing, and the single-flight submit cycle. It holds
// no I/O; handlers drive transitions and render from the form's fields.
package composer

import "errors"

// State is the composer's position in its lifecycle.
type State int

const (
	// Unauthenticated shows the sign-in form.
	Unauthenticated State = iota
	// Authenticating means credentials were submitted and are being
	// verified.
	Authenticating
	// Editing is the normal composing state.
	Editing
	// Submitting means one create request is in flight; further submits
	// are rejected until it resolves.
	Submitting
	// Success means the update was created and fields were cleared; the
	// caller should navigate to the listing.
	Success
	// Failed means the last submit was rejected; entered field values are
	// preserved so the user can retry without retyping.
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Channel identifies one of the two independent image-upload side channels.
type Channel int

const (
	// InlineImage splices a markdown image reference into the content.
	InlineImage Channel = iota
	// FeaturedImage sets the update's featured image URL.
	FeaturedImage
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submit has not resolved (double-click protection).
var ErrSubmitInFlight = errors.New("composer: submit already in flight")

// ErrBadTransition is returned for transitions the current state does not
// allow.
var ErrBadTransition = errors.New("composer: transition not allowed")

// Form is one composer instance. The zero value starts Unauthenticated.
type Form struct {
	state State

	Title    string
	Content  string
	ImageURL string

	// ErrMessage is the inline error banner text, empty when none.
	ErrMessage string
}

// State returns the current state.
func (f *Form) State() State { return f.state }

// BeginEditing jumps straight to Editing for a request that already carries
// a valid session.
func (f *Form) BeginEditing() {
	f.state = Editing
	f.ErrMessage = ""
}

// SubmitCredentials moves from the sign-in form into verification.
func (f *Form) SubmitCredentials() error {
	if f.state != Unauthenticated {
		return ErrBadTransition
	}
	f.state = Authenticating
	f.ErrMessage = ""
	return nil
}

// AuthSucceeded completes sign-in and enters Editing.
func (f *Form) AuthSucceeded() error {
	if f.state != Authenticating {
		return ErrBadTransition
	}
	f.state = Editing
	f.ErrMessage = ""
	return nil
}

// AuthFailed returns to the sign-in form with the standard error message.
func (f *Form) AuthFailed() error {
	if f.state != Authenticating {
		return ErrBadTransition
	}
	f.state = Unauthenticated
	f.ErrMessage = "Invalid email or password"
	return nil
}

// editing reports whether the form accepts edits. Failed keeps the user in
// the editor with their values intact, so it counts.
func (f *Form) editing() bool {
	return f.state == Editing || f.state == Failed
}

// InsertImage completes the inline upload channel by appending a markdown
// image reference to the content. Appending (rather than true cursor
// insertion) is a known simplification.
func (f *Form) InsertImage(url string) error {
	if !f.editing() {
		return ErrBadTransition
	}
	f.Content += "\n![Image](" + url + ")\n"
	return nil
}

// SetFeaturedImage completes the featured-image upload channel.
func (f *Form) SetFeaturedImage(url string) error {
	if !f.editing() {
		return ErrBadTransition
	}
	f.ImageURL = url
	return nil
}

// UploadFailed reports a failure on one upload channel. Entered fields and
// the other channel's result are untouched.
func (f *Form) UploadFailed(ch Channel) error {
	if !f.editing() {
		return ErrBadTransition
	}
	f.ErrMessage = "Failed to upload image. Please try again."
	return nil
}

// Submit starts the create request. At most one submit may be in flight.
func (f *Form) Submit() error {
	if f.state == Submitting {
		return ErrSubmitInFlight
	}
	if !f.editing() {
		return ErrBadTransition
	}
	f.state = Submitting
	f.ErrMessage = ""
	return nil
}

// SubmitSucceeded clears all fields and marks the form done; the caller
// navigates to the listing view.
func (f *Form) SubmitSucceeded() error {
	if f.state != Submitting {
		return ErrBadTransition
	}
	f.Title = ""
	f.Content = ""
	f.ImageURL = ""
	f.ErrMessage = ""
	f.state = Success
	return nil
}

// SubmitFailed keeps every entered value and shows msg so the user can
// retry without retyping.
func (f *Form) SubmitFailed(msg string) error {
	if f.state != Submitting {
		return ErrBadTransition
	}
	if msg == "" {
		msg = "Failed to create update. Please try again."
	}
	f.ErrMessage = msg
	f.state = Failed
	return nil
}
