// Package navigation selects which screen the client shows from the auth and
// profile state.
package navigation

import "strings"

type Screen string

const (
	ScreenLanding      Screen = "landing"
	ScreenAuth         Screen = "auth"
	ScreenProfileSetup Screen = "profile_setup"
	ScreenChat         Screen = "chat"
	ScreenProfile      Screen = "profile"
)

// Navigator is a small state machine with no history stack. The zero value
// starts on the landing screen, signed out.
type Navigator struct {
	screen     Screen
	subject    string
	signedIn   bool
	hasProfile bool
}

// Resume rebuilds the navigator for an identity that may already be signed
// in, the way the client does on load.
func Resume(signedIn, hasProfile bool) *Navigator {
	n := &Navigator{}
	n.AuthChanged(signedIn, hasProfile)
	return n
}

func (n *Navigator) Screen() Screen {
	if n.screen == "" {
		return ScreenLanding
	}
	return n.screen
}

// Subject is the subject picked on the landing screen, if any.
func (n *Navigator) Subject() string { return n.subject }

// StartStudying opens the chat when the user is signed in with a profile,
// otherwise the auth screen. A non-empty subject is remembered.
func (n *Navigator) StartStudying(subject string) Screen {
	if s := strings.TrimSpace(subject); s != "" {
		n.subject = s
	}
	if n.signedIn && n.hasProfile {
		n.screen = ScreenChat
	} else {
		n.screen = ScreenAuth
	}
	return n.Screen()
}

// AuthChanged applies an auth transition. Signing in without a profile forces
// profile setup; signing out returns to landing.
func (n *Navigator) AuthChanged(signedIn, hasProfile bool) Screen {
	n.signedIn = signedIn
	n.hasProfile = signedIn && hasProfile

	switch {
	case !signedIn:
		n.screen = ScreenLanding
		n.subject = ""
	case !hasProfile:
		n.screen = ScreenProfileSetup
	case n.screen == ScreenAuth:
		n.screen = ScreenLanding
	}
	return n.Screen()
}

// ProfileCompleted leaves profile setup for the chat.
func (n *Navigator) ProfileCompleted() Screen {
	if !n.signedIn {
		return n.Screen()
	}
	n.hasProfile = true
	n.screen = ScreenChat
	return n.Screen()
}

// ShowProfile opens the profile view; it needs a profile.
func (n *Navigator) ShowProfile() Screen {
	if n.signedIn && n.hasProfile {
		n.screen = ScreenProfile
	}
	return n.Screen()
}

// BackToHome returns to landing and forgets the subject.
func (n *Navigator) BackToHome() Screen {
	n.screen = ScreenLanding
	n.subject = ""
	return n.Screen()
}
