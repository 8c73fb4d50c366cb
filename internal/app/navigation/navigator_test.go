package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/studybuddy/internal/app/navigation"
)

func TestAnonymousStartGoesToAuth(t *testing.T) {
	var n navigation.Navigator
	assert.Equal(t, navigation.ScreenLanding, n.Screen())

	assert.Equal(t, navigation.ScreenAuth, n.StartStudying("Physics"))
	assert.Equal(t, "Physics", n.Subject())
}

func TestSignUpFlow(t *testing.T) {
	var n navigation.Navigator
	n.StartStudying("")

	assert.Equal(t, navigation.ScreenProfileSetup, n.AuthChanged(true, false))
	assert.Equal(t, navigation.ScreenProfileSetup, n.ShowProfile())
	assert.Equal(t, navigation.ScreenChat, n.ProfileCompleted())
	assert.Equal(t, navigation.ScreenProfile, n.ShowProfile())
	assert.Equal(t, navigation.ScreenLanding, n.BackToHome())
}

func TestSignInWithProfileClosesAuth(t *testing.T) {
	var n navigation.Navigator
	n.StartStudying("History")

	assert.Equal(t, navigation.ScreenLanding, n.AuthChanged(true, true))
	assert.Equal(t, navigation.ScreenChat, n.StartStudying(""))
	assert.Equal(t, "History", n.Subject())
}

func TestSignOutResets(t *testing.T) {
	n := navigation.Resume(true, true)
	n.StartStudying("Art")
	n.ShowProfile()

	assert.Equal(t, navigation.ScreenLanding, n.AuthChanged(false, false))
	assert.Empty(t, n.Subject())
	assert.Equal(t, navigation.ScreenAuth, n.StartStudying(""))
}

func TestResume(t *testing.T) {
	assert.Equal(t, navigation.ScreenLanding, navigation.Resume(false, false).Screen())
	assert.Equal(t, navigation.ScreenProfileSetup, navigation.Resume(true, false).Screen())
	assert.Equal(t, navigation.ScreenLanding, navigation.Resume(true, true).Screen())
}

func TestProfileCompletedRequiresSignIn(t *testing.T) {
	var n navigation.Navigator
	assert.Equal(t, navigation.ScreenLanding, n.ProfileCompleted())
}
