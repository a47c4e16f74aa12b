// Package ui implements the interactive catalog browser.
//
// The TUI reads the session store for identity and routes every favorite
// action through the shared toggler, so its gating and favorite state cannot
// drift from the CLI surfaces.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sciencehub/shx/internal/favorites"
	"github.com/sciencehub/shx/internal/formatter"
	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/session"
	"github.com/sciencehub/shx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BookListView ViewState = iota
	BookDetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.Engine
	toggler      *favorites.Toggler
	store        *session.Store
	downloadDir  string
	width        int
	height       int
	bookList     list.Model
	books        []models.Book
	selectedBook *models.Book
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	favorite key.Binding
	download key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.favorite, k.download},
		{k.quit},
	}
}

type booksFetchedMsg struct {
	books     []models.Book
	fromCache bool
	err       error
}

type favoritesSyncedMsg struct {
	err error
}

type favoriteToggledMsg struct {
	bookID   string
	favorite bool
	err      error
}

type downloadDoneMsg struct {
	path string
	err  error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine, toggler *favorites.Toggler, store *session.Store, downloadDir string) *Model {
	bookList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	bookList.Title = "ScienceHub Catalog"

	return &Model{
		ctx:         ctx,
		view:        BookListView,
		engine:      engine,
		toggler:     toggler,
		store:       store,
		downloadDir: downloadDir,
		bookList:    bookList,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init fetches the catalog and, when logged in, the canonical favorites.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchBooks()}
	if session.IsAuthenticated(m.store.Current()) {
		cmds = append(cmds, m.syncFavorites())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bookList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case BookListView:
			return m.handleBookListKeys(msg)
		case BookDetailView:
			return m.handleDetailKeys(msg)
		}

	case booksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.books = msg.books
		if msg.fromCache {
			m.status = "backend unreachable, showing cached catalog"
		}
		m.rebuildList()
		return m, nil

	case favoritesSyncedMsg:
		// A failed sync only means hearts may be stale; the browser works on.
		if msg.err == nil {
			m.rebuildList()
		}
		return m, nil

	case favoriteToggledMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("favorite failed: %v", msg.err)
			return m, nil
		}
		if msg.favorite {
			m.status = "added to favorites"
		} else {
			m.status = "removed from favorites"
		}
		m.rebuildList()
		return m, nil

	case downloadDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("download failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("saved to %s", msg.path)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.bookList, cmd = m.bookList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case BookListView:
		return m.renderBookList()
	case BookDetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleBookListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.bookList.SelectedItem().(bookItem); ok {
			book := item.book
			m.selectedBook = &book
			m.view = BookDetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if item, ok := m.bookList.SelectedItem().(bookItem); ok {
			return m, m.toggleFavorite(item.book.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.bookList, cmd = m.bookList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = BookListView
		m.selectedBook = nil
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.selectedBook != nil {
			return m, m.toggleFavorite(m.selectedBook.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.download):
		if m.selectedBook != nil {
			m.status = "downloading..."
			return m, m.download(*m.selectedBook)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) rebuildList() {
	items := make([]list.Item, len(m.books))
	for i, book := range m.books {
		items[i] = bookItem{book: book, favorite: m.toggler.IsFavorite(book.ID)}
	}

	m.bookList.SetItems(items)
	if m.width > 0 {
		m.bookList.SetSize(m.width-4, m.height-8)
	}
}

func (m *Model) fetchBooks() tea.Cmd {
	return func() tea.Msg {
		books, fromCache, err := m.engine.FetchCatalogBooks(m.ctx)
		return booksFetchedMsg{books: books, fromCache: fromCache, err: err}
	}
}

func (m *Model) syncFavorites() tea.Cmd {
	return func() tea.Msg {
		return favoritesSyncedMsg{err: m.toggler.Refresh(m.ctx)}
	}
}

// toggleFavorite routes through the shared toggler; an unauthenticated user
// gets a login hint instead of a request.
func (m *Model) toggleFavorite(bookID string) tea.Cmd {
	if !session.IsAuthenticated(m.store.Current()) {
		m.status = "log in to manage favorites (shx auth login)"
		return nil
	}
	return func() tea.Msg {
		fav, err := m.toggler.Toggle(m.ctx, bookID)
		return favoriteToggledMsg{bookID: bookID, favorite: fav, err: err}
	}
}

func (m *Model) download(book models.Book) tea.Cmd {
	return func() tea.Msg {
		path, _, err := m.engine.DownloadBook(m.ctx, book, m.downloadDir)
		return downloadDoneMsg{path: path, err: err}
	}
}

func (m *Model) renderBookList() string {
	header := ""
	if sess := m.store.Current(); sess.Authenticated() {
		header = styles.subtle.Render(fmt.Sprintf("logged in as %s", sess.User.Email))
	} else {
		header = styles.subtle.Render("browsing as guest")
	}

	status := ""
	if m.status != "" {
		status = "\n" + styles.warn.Render(m.status)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", header, m.bookList.View(), status, helpView)
}

func (m *Model) renderDetail() string {
	book := m.selectedBook
	if book == nil {
		return styles.err.Render("No book selected\n\nPress esc to go back")
	}

	title := styles.title.Render(book.Title)
	heart := ""
	if m.toggler.IsFavorite(book.ID) {
		heart = styles.ok.Render(" ♥")
	}

	info := fmt.Sprintf(
		"\nAuthor: %s\nCategory: %s\nDifficulty: %s\nLanguage: %s\nSize: %s\nDownloads: %d\n",
		book.Author, book.Category.Name, book.Difficulty, book.Language,
		formatter.FormatFileSize(book.FileSize), book.DownloadCount,
	)

	desc := ""
	if book.Description != "" {
		desc = "\n" + book.Description + "\n"
	}

	status := ""
	if m.status != "" {
		status = "\n" + styles.warn.Render(m.status)
	}

	helpKeys := []key.Binding{m.keys.favorite, m.keys.download, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s%s%s%s\n\n%s", title, heart, info, desc, status, helpView)
}
