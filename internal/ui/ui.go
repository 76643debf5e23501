package ui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/wasaphoto/internal/formatter"
	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/navigation"
	"github.com/desertthunder/wasaphoto/internal/services"
	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/desertthunder/wasaphoto/internal/tasks"
)

const defaultStreamSize = 10

// ModelOpts contains the dependencies of the TUI.
type ModelOpts struct {
	Engine     *navigation.Engine
	Store      session.Store
	API        services.PhotoService
	Uploads    *tasks.UploadEngine // defaults to an engine over API
	Logger     *log.Logger
	StartPath  string // initial route, e.g. "/stream"
	StreamSize int    // photos per followed user
}

// Model represents the TUI application state.
//
// The current view is whatever route the navigation engine last committed. Data is only fetched after a commit
// arrives from the engine's AfterEach hook.
type Model struct {
	ctx        context.Context
	engine     *navigation.Engine
	store      session.Store
	api        services.PhotoService
	uploads    *tasks.UploadEngine
	logger     *log.Logger
	startPath  string
	streamSize int

	commits  chan navigation.Match
	route    navigation.Match
	hasRoute bool

	tokenInput  textinput.Model
	searchInput textinput.Model
	uploadInput textinput.Model
	users       list.Model

	profile  *models.UserProfile
	stream   *models.Stream
	results  *models.UserList
	progress tasks.ProgressUpdate
	uploaded *tasks.BulkUploadResult
	photoIdx int
	notice   string

	progressChan <-chan tasks.ProgressUpdate
	uploadDone   <-chan Msg

	loading   bool
	uploading bool
	err       error
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model and subscribes it to committed transitions of opts.Engine.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.StartPath == "" {
		opts.StartPath = "/"
	}
	if opts.StreamSize <= 0 {
		opts.StreamSize = defaultStreamSize
	}
	if opts.Uploads == nil && opts.API != nil {
		opts.Uploads = tasks.NewUploadEngine(opts.API)
	}

	m := &Model{
		ctx:         ctx,
		engine:      opts.Engine,
		store:       opts.Store,
		api:         opts.API,
		uploads:     opts.Uploads,
		logger:      shared.WithLogger(opts.Logger, "component", "ui"),
		startPath:   opts.StartPath,
		streamSize:  opts.StreamSize,
		commits:     make(chan navigation.Match, 16),
		tokenInput:  newInput("user id", true),
		searchInput: newInput("username", false),
		uploadInput: newInput("photo.jpg other.png", false),
		users:       newUserList(),
		help:        help.New(),
		keys:        newKeyMap(),
	}

	// Blocks until the UI takes the commit so no view change is lost; the engine lock is not held here.
	m.engine.AfterEach(func(ctx context.Context, _ *navigation.Match, to navigation.Match) {
		select {
		case m.commits <- to:
		case <-ctx.Done():
			m.logger.Warn("navigation ended before the view changed", "path", to.Path, "error", ctx.Err())
		case <-m.ctx.Done():
		}
	})
	return m
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	if secret {
		in.EchoMode = textinput.EchoPassword
	}
	return in
}

func newUserList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Users"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// Init performs the initial navigation through the guard.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForCommit(), m.start())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.users.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgNavigated:
		d := msg.data.(navigated)
		if d.err != nil {
			m.err = d.err
		}
		return m, nil

	case MsgCommitted:
		return m, tea.Batch(m.waitForCommit(), m.enter(msg.data.(navigation.Match)))

	case MsgLoggedIn:
		if err, _ := msg.data.(error); err != nil {
			m.err = err
			return m, nil
		}
		m.tokenInput.Reset()
		return m, m.navigate(m.startPath)

	case MsgProfileFetched:
		d := msg.data.(profileFetched)
		if m.route.Route.View == navigation.ViewProfile {
			m.loading = false
			m.profile, m.err = d.profile, d.err
			m.movePhoto(0)
		}
		return m, nil

	case MsgActionDone:
		d := msg.data.(actionDone)
		if m.route.Route.View != navigation.ViewProfile {
			return m, nil
		}
		if d.err != nil {
			m.notice, m.err = "", d.err
			return m, nil
		}
		m.notice, m.err = d.message, nil
		return m, m.fetchProfile(m.route.Param("id"))

	case MsgStreamFetched:
		d := msg.data.(streamFetched)
		if m.route.Route.View == navigation.ViewStream {
			m.loading = false
			m.stream, m.err = d.stream, d.err
		}
		return m, nil

	case MsgSearchDone:
		d := msg.data.(searchDone)
		if m.route.Route.View == navigation.ViewSearch {
			m.loading = false
			m.results, m.err = d.users, d.err
			if d.users != nil {
				m.users.SetItems(userItems(d.users.Users))
			}
		}
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgUploadComplete:
		d := msg.data.(uploadComplete)
		m.uploading = false
		m.progressChan, m.uploadDone = nil, nil
		m.uploaded, m.err = d.result, d.err
		return m, nil
	}
	return m, nil
}

// enter switches to a committed route and starts its data fetch.
func (m *Model) enter(to navigation.Match) tea.Cmd {
	m.route = to
	m.hasRoute = true
	m.err = nil
	m.loading = false
	m.profile, m.stream, m.results = nil, nil, nil
	m.photoIdx, m.notice = 0, ""
	m.tokenInput.Blur()
	m.searchInput.Blur()
	m.uploadInput.Blur()

	switch to.Route.View {
	case navigation.ViewLogin:
		return m.tokenInput.Focus()

	case navigation.ViewProfile:
		m.loading = true
		return m.fetchProfile(to.Param("id"))

	case navigation.ViewStream:
		m.loading = true
		return m.fetchStream()

	case navigation.ViewSearch:
		pattern := to.Query.Get("pattern")
		m.users.SetItems(nil)
		if pattern == "" {
			m.searchInput.Reset()
			return m.searchInput.Focus()
		}
		m.searchInput.SetValue(pattern)
		m.loading = true
		return m.search(pattern)

	case navigation.ViewUpload:
		if m.uploading {
			return nil
		}
		m.uploaded = nil
		m.progress = tasks.ProgressUpdate{}
		return m.uploadInput.Focus()
	}
	return nil
}

func (m *Model) focusedInput() *textinput.Model {
	switch {
	case m.tokenInput.Focused():
		return &m.tokenInput
	case m.searchInput.Focused():
		return &m.searchInput
	case m.uploadInput.Focused():
		return &m.uploadInput
	}
	return nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.abort) {
		return m, tea.Quit
	}

	if in := m.focusedInput(); in != nil {
		switch {
		case key.Matches(msg, m.keys.enter):
			return m, m.submit()
		case key.Matches(msg, m.keys.blur):
			in.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}

	view := m.route.Route.View
	if m.hasRoute && view == navigation.ViewProfile {
		if cmd, ok := m.profileKeys(msg); ok {
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.profile):
		return m, m.ownProfile()
	case key.Matches(msg, m.keys.upload):
		return m, m.navigateTo("upload")
	case key.Matches(msg, m.keys.stream):
		return m, m.navigateTo("stream")
	case key.Matches(msg, m.keys.search):
		if m.hasRoute && view == navigation.ViewSearch {
			return m, m.searchInput.Focus()
		}
		return m, m.navigateTo("search")
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.back):
		return m, m.back()
	case key.Matches(msg, m.keys.enter):
		switch view {
		case navigation.ViewLogin:
			return m, m.tokenInput.Focus()
		case navigation.ViewUpload:
			return m, m.uploadInput.Focus()
		case navigation.ViewSearch:
			if item, ok := m.users.SelectedItem().(userItem); ok {
				return m, m.navigateTo("profile", "id", fmt.Sprint(item.user.ID))
			}
		}
		return m, nil
	}

	if view == navigation.ViewSearch {
		var cmd tea.Cmd
		m.users, cmd = m.users.Update(msg)
		return m, cmd
	}
	return m, nil
}

// profileKeys handles the actions of the profile view. ok is false when msg is not one of them.
func (m *Model) profileKeys(msg tea.KeyMsg) (cmd tea.Cmd, ok bool) {
	target := m.route.Param("id")

	switch {
	case key.Matches(msg, m.keys.nextPhoto):
		m.movePhoto(1)
		return nil, true
	case key.Matches(msg, m.keys.prevPhoto):
		m.movePhoto(-1)
		return nil, true

	case key.Matches(msg, m.keys.follow):
		return m.act(func(ctx context.Context, me string) (string, error) {
			return m.api.FollowUser(ctx, me, target)
		}), true
	case key.Matches(msg, m.keys.unfollow):
		return m.act(func(ctx context.Context, me string) (string, error) {
			return m.api.UnfollowUser(ctx, me, target)
		}), true
	case key.Matches(msg, m.keys.ban):
		return m.act(func(ctx context.Context, me string) (string, error) {
			return m.api.BanUser(ctx, me, target)
		}), true
	case key.Matches(msg, m.keys.unban):
		return m.act(func(ctx context.Context, me string) (string, error) {
			return m.api.UnbanUser(ctx, me, target)
		}), true
	}

	photo, selected := m.selectedPhoto()
	switch {
	case key.Matches(msg, m.keys.like):
		if !selected {
			return nil, true
		}
		return m.act(func(ctx context.Context, me string) (string, error) {
			return m.api.LikePhoto(ctx, target, photo, me)
		}), true
	case key.Matches(msg, m.keys.unlike):
		if !selected {
			return nil, true
		}
		return m.act(func(ctx context.Context, me string) (string, error) {
			return m.api.UnlikePhoto(ctx, target, photo, me)
		}), true
	case key.Matches(msg, m.keys.deletePhoto):
		if !selected {
			return nil, true
		}
		return m.act(func(ctx context.Context, me string) (string, error) {
			if me != target {
				return "", fmt.Errorf("%w: only your own photos can be deleted", shared.ErrForbidden)
			}
			return m.api.DeletePhoto(ctx, me, photo)
		}), true
	}
	return nil, false
}

// movePhoto shifts the photo selection by delta and clamps it to the loaded profile.
func (m *Model) movePhoto(delta int) {
	n := 0
	if m.profile != nil {
		n = len(m.profile.Photos)
	}
	m.photoIdx += delta
	if m.photoIdx >= n {
		m.photoIdx = n - 1
	}
	if m.photoIdx < 0 {
		m.photoIdx = 0
	}
}

func (m *Model) selectedPhoto() (string, bool) {
	if m.profile == nil || m.photoIdx >= len(m.profile.Photos) {
		return "", false
	}
	return strconv.FormatInt(m.profile.Photos[m.photoIdx].ID, 10), true
}

// act runs call as the logged in user. The token is read when the command runs, not when the key was pressed.
func (m *Model) act(call func(ctx context.Context, me string) (string, error)) tea.Cmd {
	if m.api == nil {
		m.err = fmt.Errorf("%w: backend unavailable", shared.ErrServiceUnavailable)
		return nil
	}
	m.notice = ""
	return func() tea.Msg {
		me, ok := session.Bearer(m.ctx, m.store, m.logger)
		if !ok {
			return actionDoneMsg("", shared.ErrNotAuthenticated)
		}
		message, err := call(m.ctx, me)
		return actionDoneMsg(message, err)
	}
}

// submit handles enter inside the focused input.
func (m *Model) submit() tea.Cmd {
	switch {
	case m.tokenInput.Focused():
		token := strings.TrimSpace(m.tokenInput.Value())
		if !session.Present(token) {
			m.err = fmt.Errorf("%w: enter your user id", shared.ErrInvalidInput)
			return nil
		}
		return m.login(token)

	case m.searchInput.Focused():
		pattern := strings.TrimSpace(m.searchInput.Value())
		if pattern == "" {
			return nil
		}
		m.searchInput.Blur()
		return m.navigate("/search?pattern=" + url.QueryEscape(pattern))

	case m.uploadInput.Focused():
		paths := strings.Fields(m.uploadInput.Value())
		if len(paths) == 0 {
			return nil
		}
		m.uploadInput.Blur()
		m.uploadInput.Reset()
		return m.startUpload(paths)
	}
	return nil
}

func (m *Model) start() tea.Cmd {
	path := m.startPath
	return func() tea.Msg {
		res, err := m.engine.Start(m.ctx, path)
		return navigatedMsg(res, err)
	}
}

func (m *Model) navigate(path string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Navigate(m.ctx, path)
		return navigatedMsg(res, err)
	}
}

func (m *Model) navigateTo(name string, pairs ...string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.NavigateTo(m.ctx, name, pairs...)
		return navigatedMsg(res, err)
	}
}

func (m *Model) back() tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Back(m.ctx)
		return navigatedMsg(res, err)
	}
}

// ownProfile navigates to the profile of the logged in user. The token is the user id.
func (m *Model) ownProfile() tea.Cmd {
	return func() tea.Msg {
		id, ok := session.Bearer(m.ctx, m.store, m.logger)
		if !ok {
			id = "me"
		}
		res, err := m.engine.NavigateTo(m.ctx, "profile", "id", id)
		return navigatedMsg(res, err)
	}
}

func (m *Model) login(token string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Set(m.ctx, token); err != nil {
			return loggedInMsg(fmt.Errorf("failed to save session: %w", err))
		}
		return loggedInMsg(nil)
	}
}

// logout clears the token and re-runs the guard on the current route.
func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Clear(m.ctx); err != nil {
			m.logger.Warn("failed to clear session", "error", err)
		}
		res, err := m.engine.Reload(m.ctx)
		return navigatedMsg(res, err)
	}
}

func (m *Model) waitForCommit() tea.Cmd {
	commits := m.commits
	return func() tea.Msg {
		select {
		case to := <-commits:
			return committedMsg(to)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) fetchProfile(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.api.GetProfile(m.ctx, id)
		return profileFetchedMsg(p, err)
	}
}

func (m *Model) fetchStream() tea.Cmd {
	size := m.streamSize
	return func() tea.Msg {
		id, ok := session.Bearer(m.ctx, m.store, m.logger)
		if !ok {
			return streamFetchedMsg(nil, shared.ErrNotAuthenticated)
		}
		s, err := m.api.GetStream(m.ctx, id, size, 0)
		return streamFetchedMsg(s, err)
	}
}

func (m *Model) search(pattern string) tea.Cmd {
	return func() tea.Msg {
		u, err := m.api.Search(m.ctx, pattern)
		return searchDoneMsg(u, err)
	}
}

func (m *Model) startUpload(paths []string) tea.Cmd {
	if m.uploads == nil {
		m.err = fmt.Errorf("%w: uploads unavailable", shared.ErrServiceUnavailable)
		return nil
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.uploading = true
	m.uploaded = nil
	m.err = nil

	go func() {
		defer close(progress)
		id, ok := session.Bearer(m.ctx, m.store, m.logger)
		if !ok {
			done <- uploadCompleteMsg(nil, shared.ErrNotAuthenticated)
			return
		}
		res, err := m.uploads.BulkUpload(m.ctx, progress, id, paths, tasks.BulkUploadOpts{})
		done <- uploadCompleteMsg(res, err)
	}()

	m.progressChan = progress
	m.uploadDone = done
	return m.waitForProgress()
}

// waitForProgress delivers the next progress update, or the final result once progress is closed.
func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.uploadDone
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

// View renders the UI based on the current route.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("WASAPhoto"))
	if m.hasRoute {
		b.WriteString("  " + styles.route.Render(m.route.Path))
	}
	b.WriteString("\n")

	if !m.hasRoute {
		b.WriteString("Loading...\n")
	} else {
		switch m.route.Route.View {
		case navigation.ViewLogin:
			b.WriteString(m.renderLogin())
		case navigation.ViewProfile:
			b.WriteString(m.renderProfile())
		case navigation.ViewStream:
			b.WriteString(m.renderStream())
		case navigation.ViewSearch:
			b.WriteString(m.renderSearch())
		case navigation.ViewUpload:
			b.WriteString(m.renderUpload())
		}
	}

	if m.err != nil {
		b.WriteString("\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.helpKeys()))
	return b.String()
}

func (m *Model) helpKeys() []key.Binding {
	if m.focusedInput() != nil {
		return []key.Binding{m.keys.enter, m.keys.blur, m.keys.abort}
	}
	switch m.route.Route.View {
	case navigation.ViewLogin:
		return []key.Binding{m.keys.enter, m.keys.quit}
	case navigation.ViewProfile:
		return append(m.keys.profileHelp(), m.keys.navHelp()...)
	}
	return m.keys.navHelp()
}

func (m *Model) renderLogin() string {
	return fmt.Sprintf("Log in with your user id\n\n%s\n", m.tokenInput.View())
}

func (m *Model) renderProfile() string {
	if m.loading {
		return "Loading profile...\n"
	}
	if m.profile == nil {
		return ""
	}

	var b strings.Builder
	b.Write(formatter.ProfileToText(m.profile))
	if n := len(m.profile.Photos); n > 0 && m.photoIdx < n {
		p := m.profile.Photos[m.photoIdx]
		b.WriteString(styles.help.Render(fmt.Sprintf("Selected photo #%d (%d/%d)", p.ID, m.photoIdx+1, n)) + "\n")
	}
	if m.notice != "" {
		b.WriteString(styles.ok.Render("✓ "+m.notice) + "\n")
	}
	return b.String()
}

func (m *Model) renderStream() string {
	if m.loading {
		return "Loading stream...\n"
	}
	if m.stream == nil {
		return ""
	}
	if len(m.stream.Photos) == 0 {
		return styles.help.Render("Nothing here yet. Follow someone to fill your stream.") + "\n"
	}
	return string(formatter.StreamToText(m.stream))
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View() + "\n\n")

	switch {
	case m.loading:
		b.WriteString("Searching...\n")
	case m.results != nil && len(m.results.Users) == 0:
		b.WriteString(styles.warn.Render("No users found") + "\n")
	case m.results != nil:
		b.WriteString(m.users.View() + "\n")
	}
	return b.String()
}

func (m *Model) renderUpload() string {
	var b strings.Builder
	b.WriteString("Photos to upload (space separated paths)\n\n")
	b.WriteString(m.uploadInput.View() + "\n\n")

	if m.uploading {
		b.WriteString(m.progress.Message + "\n")
	}
	if r := m.uploaded; r != nil {
		if r.Failed == 0 {
			b.WriteString(styles.ok.Render(fmt.Sprintf("✓ Uploaded %d/%d photos", r.Succeeded, r.Total)) + "\n")
		} else {
			b.WriteString(styles.warn.Render(fmt.Sprintf("Uploaded %d/%d photos", r.Succeeded, r.Total)) + "\n")
			for _, res := range r.Results {
				if res.Error != nil {
					b.WriteString(fmt.Sprintf("  • %s: %v\n", res.Path, res.Error))
				}
			}
		}
	}
	return b.String()
}
