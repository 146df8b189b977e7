package backend

import (
	"context"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-cms-editor/internal/commands"
	"github.com/goliatone/go-cms-editor/internal/shared"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// SavePageCommand stores the container layout of a page.
type SavePageCommand struct {
	PageID     string
	Locale     string
	Containers []shared.Container
}

func (SavePageCommand) Type() string { return "editor.page.save" }

func (m SavePageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, validation.Required),
		validation.Field(&m.Containers, validation.By(uniqueContainerNames)),
	)
}

// SaveGroupContainerCommand replaces the sub-elements of a group container.
type SaveGroupContainerCommand struct {
	PageID   string
	GroupID  shared.ClientID
	Title    string
	Elements []shared.ContainerElement
}

func (SaveGroupContainerCommand) Type() string { return "editor.group_container.save" }

func (m SaveGroupContainerCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, validation.Required),
		validation.Field(&m.GroupID, validation.Required, validation.By(structureID)),
	)
}

// SaveListCommand replaces a favorites or recent list.
type SaveListCommand struct {
	Owner string
	Kind  ListKind
	IDs   []shared.ClientID
}

func (SaveListCommand) Type() string { return "editor.list.save" }

func (m SaveListCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Owner, validation.Required),
		validation.Field(&m.Kind, validation.Required, validation.In(ListFavorites, ListRecent)),
	)
}

// AddToListCommand puts an element at the head of a list. A positive Limit
// caps the list length.
type AddToListCommand struct {
	Owner string
	Kind  ListKind
	ID    shared.ClientID
	Limit int
}

func (AddToListCommand) Type() string { return "editor.list.add" }

func (m AddToListCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Owner, validation.Required),
		validation.Field(&m.Kind, validation.Required, validation.In(ListFavorites, ListRecent)),
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Limit, validation.Min(0)),
	)
}

// SaveValueCommand writes one content value of an element.
type SaveValueCommand struct {
	ContentID   string
	ContentPath string
	Locale      string
	Value       string
}

func (SaveValueCommand) Type() string { return "editor.value.save" }

func (m SaveValueCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ContentID, validation.Required, is.UUID),
		validation.Field(&m.ContentPath, validation.Required),
	)
}

func uniqueContainerNames(value any) error {
	containers, _ := value.([]shared.Container)
	seen := make(map[string]struct{}, len(containers))
	for _, container := range containers {
		if container.Name == "" {
			return validation.NewError("editor.page.container_name_required", "container name is required")
		}
		if _, ok := seen[container.Name]; ok {
			return validation.NewError("editor.page.container_duplicate", "duplicate container "+container.Name)
		}
		seen[container.Name] = struct{}{}
	}
	return nil
}

func structureID(value any) error {
	id, _ := value.(shared.ClientID)
	if id == "" || id.IsStructureID() {
		return nil
	}
	return validation.NewError("editor.structure_id_invalid", "must be a structure id")
}

type commandSet struct {
	savePage  *commands.Handler[SavePageCommand]
	saveGroup *commands.Handler[SaveGroupContainerCommand]
	saveList  *commands.Handler[SaveListCommand]
	addToList *commands.Handler[AddToListCommand]
	saveValue *commands.Handler[SaveValueCommand]
}

func (b *Backend) registerCommands() {
	b.commands = commandSet{
		savePage: commands.NewHandler(b.execSavePage,
			commands.WithLogger[SavePageCommand](b.commandLogger),
			commands.WithOperation[SavePageCommand]("page.save")),
		saveGroup: commands.NewHandler(b.execSaveGroup,
			commands.WithLogger[SaveGroupContainerCommand](b.commandLogger),
			commands.WithOperation[SaveGroupContainerCommand]("group_container.save")),
		saveList: commands.NewHandler(b.execSaveList,
			commands.WithLogger[SaveListCommand](b.commandLogger),
			commands.WithOperation[SaveListCommand]("list.save")),
		addToList: commands.NewHandler(b.execAddToList,
			commands.WithLogger[AddToListCommand](b.commandLogger),
			commands.WithOperation[AddToListCommand]("list.add")),
		saveValue: commands.NewHandler(b.execSaveValue,
			commands.WithLogger[SaveValueCommand](b.commandLogger),
			commands.WithOperation[SaveValueCommand]("value.save")),
	}
}

func (b *Backend) execSavePage(ctx context.Context, msg SavePageCommand) error {
	page, err := b.loadPage(ctx, msg.PageID)
	if err != nil {
		return err
	}
	page.Locale = msg.Locale
	page.Containers = msg.Containers
	page.LastModified = b.now().UnixMilli()
	page.UpdatedAt = b.now()
	if _, err := b.repos.Pages.Save(ctx, page); err != nil {
		return storageError(err, "save page")
	}
	return nil
}

func (b *Backend) execSaveGroup(ctx context.Context, msg SaveGroupContainerCommand) error {
	record, err := b.element(ctx, msg.GroupID)
	if err != nil {
		return err
	}
	if !record.GroupContainer {
		return goerrors.Wrap(ErrNotGroupContainer, goerrors.CategoryValidation, "element "+msg.GroupID.String()+" is not a group container").
			WithTextCode(TextCodeNotGroup)
	}
	record.SubItems = record.SubItems[:0]
	for _, element := range msg.Elements {
		record.SubItems = append(record.SubItems, element.ClientID.String())
	}
	if msg.Title != "" {
		record.Title = msg.Title
	}
	record.UpdatedAt = b.now()
	if _, err := b.repos.Elements.Update(ctx, record); err != nil {
		return storageError(err, "save group container")
	}
	return nil
}

func (b *Backend) execSaveList(ctx context.Context, msg SaveListCommand) error {
	items := make([]string, 0, len(msg.IDs))
	for _, id := range msg.IDs {
		if !slices.Contains(items, id.String()) {
			items = append(items, id.String())
		}
	}
	return b.storeList(ctx, msg.Owner, msg.Kind, items)
}

func (b *Backend) execAddToList(ctx context.Context, msg AddToListCommand) error {
	items, err := b.listItems(ctx, msg.Owner, msg.Kind)
	if err != nil {
		return err
	}
	value := msg.ID.String()
	items = slices.DeleteFunc(items, func(item string) bool { return item == value })
	items = append([]string{value}, items...)
	if msg.Limit > 0 && len(items) > msg.Limit {
		items = items[:msg.Limit]
	}
	return b.storeList(ctx, msg.Owner, msg.Kind, items)
}

func (b *Backend) execSaveValue(ctx context.Context, msg SaveValueCommand) error {
	id, _ := uuid.Parse(msg.ContentID)
	record, err := b.repos.Elements.GetByID(ctx, id)
	if err != nil {
		return storageError(err, "load element")
	}
	if record.FieldValues == nil {
		record.FieldValues = map[string]string{}
	}
	record.FieldValues[valueKey(msg.Locale, msg.ContentPath)] = msg.Value
	record.UpdatedAt = b.now()
	if _, err := b.repos.Elements.Update(ctx, record); err != nil {
		return storageError(err, "save value")
	}
	return nil
}

func (b *Backend) storeList(ctx context.Context, owner string, kind ListKind, items []string) error {
	record := &ListRecord{Owner: owner, Kind: kind, Items: items, UpdatedAt: b.now()}
	if _, err := b.repos.Lists.Save(ctx, record); err != nil {
		return storageError(err, "save "+string(kind)+" list")
	}
	return nil
}

func valueKey(locale, path string) string {
	if locale == "" {
		return path
	}
	return locale + ":" + path
}
