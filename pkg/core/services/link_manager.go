package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
	"github.com/wadjakorntonsri/go-custom-links/pkg/logger"
	"github.com/wadjakorntonsri/go-custom-links/pkg/ports"
	"go.uber.org/zap"
)

// linkState is everything one hosted widget instance remembers
type linkState struct {
	ready    bool
	userID   int64
	links    []domain.LinkRecord
	cursor   domain.EditCursor
	paneOpen bool
	values   domain.FormValues
}

// LinkManager keeps a user's link list in memory and mirrors it to the
// record store. It takes no lock: the host delivers one event at a time.
//
// Saving is two-phase (delete every stored row of the user, then insert the
// list in order) with no transaction around it. A failure after the first
// phase leaves the store empty or partially written while memory keeps the
// already mutated list.
type LinkManager struct {
	host     ports.HostContext
	store    ports.RecordStore
	target   ports.RenderTarget
	logger   *zap.Logger
	validate *validator.Validate

	state linkState
}

func NewLinkManager(host ports.HostContext, store ports.RecordStore, target ports.RenderTarget, log *zap.Logger) *LinkManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &LinkManager{
		host:     host,
		store:    store,
		target:   target,
		logger:   log,
		validate: validator.New(),
	}
}

// Initialize resolves the current user and loads their links. It is a no-op
// once the manager is ready; on failure the manager stays uninitialized.
func (m *LinkManager) Initialize(ctx context.Context) error {
	if m.state.ready {
		return nil
	}

	userID, err := m.host.CurrentUserID(ctx)
	if err != nil {
		return markError(domain.ErrIdentityLookupFailed, err, "resolve current user")
	}
	m.state.userID = userID
	m.logger = m.logger.With(zap.Int64(logger.FieldUID, userID))

	if err := m.loadUserLinks(ctx); err != nil {
		return err
	}
	m.state.ready = true
	return nil
}

func (m *LinkManager) LoadUserLinks(ctx context.Context) error {
	if !m.state.ready {
		return domain.ErrNotReady
	}
	return m.loadUserLinks(ctx)
}

func (m *LinkManager) loadUserLinks(ctx context.Context) error {
	items, err := m.store.Query(ctx, domain.LinkFilter{UserID: m.state.userID})
	if err != nil {
		return markError(domain.ErrStoreReadFailed, err, "load user links")
	}

	links := make([]domain.LinkRecord, 0, len(items))
	for _, item := range items {
		links = append(links, item.Record())
	}
	m.state.links = links

	m.logger.Debug("user links loaded", zap.Int(logger.FieldCount, len(links)))
	return m.Render()
}

// SaveUserLinks rewrites the user's stored rows from the in-memory list
func (m *LinkManager) SaveUserLinks(ctx context.Context) error {
	if !m.state.ready {
		return domain.ErrNotReady
	}

	items, err := m.store.Query(ctx, domain.LinkFilter{UserID: m.state.userID})
	if err != nil {
		return markError(domain.ErrStoreReadFailed, err, "list stored links")
	}
	for _, item := range items {
		if err := m.store.DeleteByID(ctx, item.ID); err != nil {
			return markError(domain.ErrStoreWriteFailed, err, "clear stored links")
		}
	}

	for _, l := range m.state.links {
		row := &domain.StoredLink{Title: l.Title, URL: l.URL, UserID: m.state.userID}
		if err := m.store.Insert(ctx, row); err != nil {
			m.logger.Warn("save interrupted after clearing stored links", zap.Error(err))
			return markError(domain.ErrStoreWriteFailed, err, "insert link")
		}
	}

	m.logger.Debug("user links saved",
		zap.Int("deleted", len(items)),
		zap.Int(logger.FieldCount, len(m.state.links)),
	)
	return nil
}

// AddLink appends the pane's title/url, or replaces the targeted record when
// the edit cursor is set. Incomplete input is ignored.
func (m *LinkManager) AddLink(ctx context.Context) error {
	if !m.state.ready {
		return domain.ErrNotReady
	}

	rec := domain.LinkRecord{Title: m.state.values.Title, URL: m.state.values.URL}
	if err := m.validate.Struct(rec); err != nil {
		m.logger.Debug("ignoring incomplete link",
			zap.Error(markError(domain.ErrValidationFailed, err, "add link")))
		return nil
	}

	if i, ok := m.state.cursor.Index(); ok {
		if i < 0 || i >= len(m.state.links) {
			return domain.ErrIndexOutOfRange
		}
		m.state.links[i] = rec
		m.state.cursor = domain.NoCursor()
		m.logger.Info("link updated", zap.Int(logger.FieldIndex, i))
	} else {
		m.state.links = append(m.state.links, rec)
		m.logger.Info("link added", zap.Int(logger.FieldIndex, len(m.state.links)-1))
	}

	if err := m.SaveUserLinks(ctx); err != nil {
		return err
	}
	return m.Render()
}

// Submit copies the posted pane fields into the form values and runs AddLink
func (m *LinkManager) Submit(ctx context.Context, title, url string) error {
	m.state.values = domain.FormValues{Title: title, URL: url}
	return m.AddLink(ctx)
}

// DeleteLink removes the targeted record. Stored rows are matched by title and
// url, so every duplicate of the targeted pair is deleted from the store,
// while only the targeted entry leaves the in-memory list until the
// following save rewrites the store from it.
func (m *LinkManager) DeleteLink(ctx context.Context) error {
	if !m.state.ready {
		return domain.ErrNotReady
	}

	i, ok := m.state.cursor.Index()
	if !ok {
		return nil
	}
	if i < 0 || i >= len(m.state.links) {
		return domain.ErrIndexOutOfRange
	}
	target := m.state.links[i]

	items, err := m.store.Query(ctx, domain.ByValue(m.state.userID, target))
	if err != nil {
		return markError(domain.ErrStoreReadFailed, err, "find link to delete")
	}
	for _, item := range items {
		if err := m.store.DeleteByID(ctx, item.ID); err != nil {
			return markError(domain.ErrStoreWriteFailed, err, "delete link")
		}
	}

	m.state.links = append(m.state.links[:i], m.state.links[i+1:]...)
	m.state.cursor = domain.NoCursor()
	m.logger.Info("link deleted", zap.Int(logger.FieldIndex, i), zap.Int("matched", len(items)))

	if err := m.SaveUserLinks(ctx); err != nil {
		return err
	}
	return m.Render()
}

// OpenAdd opens the pane for a new link. Field values are kept as they are.
func (m *LinkManager) OpenAdd() error {
	if !m.state.ready {
		return domain.ErrNotReady
	}
	m.state.cursor = domain.NoCursor()
	m.state.paneOpen = true
	return nil
}

// OpenEdit targets the record at index and pre-fills the pane with it
func (m *LinkManager) OpenEdit(index int) error {
	if !m.state.ready {
		return domain.ErrNotReady
	}
	if index < 0 || index >= len(m.state.links) {
		return domain.ErrIndexOutOfRange
	}

	rec := m.state.links[index]
	m.state.cursor = domain.CursorAt(index)
	m.state.values = domain.FormValues{Title: rec.Title, URL: rec.URL}
	m.state.paneOpen = true
	return nil
}

func (m *LinkManager) ClosePane() error {
	if !m.state.ready {
		return domain.ErrNotReady
	}
	m.state.paneOpen = false
	return nil
}

// Render writes the link table to the render target
func (m *LinkManager) Render() error {
	markup, err := renderWidget(m.state.links, m.host.Embedded())
	if err != nil {
		return err
	}
	return m.target.Replace(markup)
}

func (m *LinkManager) Form() domain.FormDescriptor {
	return domain.BuildForm(m.state.cursor, m.state.values)
}

func (m *LinkManager) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Ready:    m.state.ready,
		UserID:   m.state.userID,
		Links:    append([]domain.LinkRecord{}, m.state.links...),
		PaneOpen: m.state.paneOpen,
		Values:   m.state.values,
	}
	if i, ok := m.state.cursor.Index(); ok {
		snap.Editing = &i
	}
	return snap
}

var _ ports.LinkManager = (*LinkManager)(nil)
