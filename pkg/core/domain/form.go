package domain

// EditCursor points at the record targeted by the open edit form, or at nothing
type EditCursor struct {
	index int
	set   bool
}

// NoCursor is the "adding a new link" state
func NoCursor() EditCursor { return EditCursor{} }

func CursorAt(index int) EditCursor { return EditCursor{index: index, set: true} }

// Index returns the targeted index and whether the cursor is set
func (c EditCursor) Index() (int, bool) { return c.index, c.set }

func (c EditCursor) IsSet() bool { return c.set }

// FormValues are the side panel text field values
type FormValues struct {
	Title string `json:"link_title"`
	URL   string `json:"link_url"`
}

type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldButton FieldKind = "button"
)

type ButtonType string

const (
	ButtonPrimary ButtonType = "primary"
	ButtonNormal  ButtonType = "normal"
)

// Pane actions the host can dispatch back to the component
const (
	ActionAddLink    = "addLink"
	ActionDeleteLink = "deleteLink"
	ActionClose      = "close"
)

// Field names of the side panel
const (
	FieldLinkTitle = "linkTitle"
	FieldLinkURL   = "linkUrl"
)

const (
	PaneDescription = "Manage your links"
	PaneGroupName   = "Link"
)

// FormField describes one control of the side panel
type FormField struct {
	Name       string     `json:"name"`
	Kind       FieldKind  `json:"kind"`
	Label      string     `json:"label,omitempty"`
	Value      string     `json:"value,omitempty"`
	Text       string     `json:"text,omitempty"`
	ButtonType ButtonType `json:"button_type,omitempty"`
	Action     string     `json:"action,omitempty"`
}

type FormGroup struct {
	Name   string      `json:"name"`
	Fields []FormField `json:"fields"`
}

// FormDescriptor is the declarative side panel consumed by the host form renderer
type FormDescriptor struct {
	Description string      `json:"description"`
	Groups      []FormGroup `json:"groups"`
}

// BuildForm derives the side panel from the edit cursor and current field values.
// The primary button reads "Update" and a Delete button is added only while a
// record is targeted.
func BuildForm(cursor EditCursor, values FormValues) FormDescriptor {
	buttonText := "Add"
	if cursor.IsSet() {
		buttonText = "Update"
	}

	fields := []FormField{
		{Name: FieldLinkTitle, Kind: FieldText, Label: "Link Title", Value: values.Title},
		{Name: FieldLinkURL, Kind: FieldText, Label: "Link URL", Value: values.URL},
		{Name: ActionAddLink, Kind: FieldButton, Text: buttonText, ButtonType: ButtonPrimary, Action: ActionAddLink},
	}

	if cursor.IsSet() {
		fields = append(fields, FormField{
			Name:       ActionDeleteLink,
			Kind:       FieldButton,
			Text:       "Delete",
			ButtonType: ButtonNormal,
			Action:     ActionDeleteLink,
		})
	}

	return FormDescriptor{
		Description: PaneDescription,
		Groups:      []FormGroup{{Name: PaneGroupName, Fields: fields}},
	}
}

// Button returns the field bound to action, if present
func (d FormDescriptor) Button(action string) (FormField, bool) {
	for _, g := range d.Groups {
		for _, f := range g.Fields {
			if f.Kind == FieldButton && f.Action == action {
				return f, true
			}
		}
	}
	return FormField{}, false
}

// Snapshot is a read-only copy of a widget instance's state
type Snapshot struct {
	Ready    bool         `json:"ready"`
	UserID   int64        `json:"user_id"`
	Links    []LinkRecord `json:"links"`
	Editing  *int         `json:"editing,omitempty"`
	PaneOpen bool         `json:"pane_open"`
	Values   FormValues   `json:"values"`
}
