package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/navigation"
	"github.com/desertthunder/wasaphoto/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgNavigated MsgKind = iota
	MsgCommitted
	MsgLoggedIn
	MsgProfileFetched
	MsgStreamFetched
	MsgSearchDone
	MsgProgressUpdate
	MsgUploadComplete
	MsgActionDone
)

type navigated struct {
	result navigation.Result
	err    error
}

type profileFetched struct {
	profile *models.UserProfile
	err     error
}

type streamFetched struct {
	stream *models.Stream
	err    error
}

type searchDone struct {
	users *models.UserList
	err   error
}

type uploadComplete struct {
	result *tasks.BulkUploadResult
	err    error
}

type actionDone struct {
	message string
	err     error
}

// navigatedMsg is the constructor for [MsgNavigated]
func navigatedMsg(res navigation.Result, err error) Msg {
	return Msg{kind: MsgNavigated, data: navigated{result: res, err: err}}
}

// committedMsg is the constructor for [MsgCommitted]
func committedMsg(to navigation.Match) Msg {
	return Msg{kind: MsgCommitted, data: to}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(err error) Msg {
	return Msg{kind: MsgLoggedIn, data: err}
}

// profileFetchedMsg is the constructor for [MsgProfileFetched]
func profileFetchedMsg(p *models.UserProfile, err error) Msg {
	return Msg{kind: MsgProfileFetched, data: profileFetched{profile: p, err: err}}
}

// streamFetchedMsg is the constructor for [MsgStreamFetched]
func streamFetchedMsg(s *models.Stream, err error) Msg {
	return Msg{kind: MsgStreamFetched, data: streamFetched{stream: s, err: err}}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(u *models.UserList, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{users: u, err: err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// uploadCompleteMsg is the constructor for [MsgUploadComplete]
func uploadCompleteMsg(result *tasks.BulkUploadResult, err error) Msg {
	return Msg{kind: MsgUploadComplete, data: uploadComplete{result: result, err: err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(message string, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionDone{message: message, err: err}}
}
