package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cryptopass/internal/client/bridge"
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/client/services"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
)

var errNotLoggedIn = errors.New("not signed in, type 'login' first")

func (a *App) setItems(items []models.Item) {
	a.mu.Lock()
	a.items = slices.Clone(items)
	a.mu.Unlock()
}

func (a *App) snapshot() []models.Item {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.items)
}

func (a *App) vaultSync() (*services.VaultSync, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.vault == nil {
		return nil, errNotLoggedIn
	}
	return a.vault, nil
}

// unlocked returns the vault key, reporting to the user when it is gone.
func (a *App) unlocked() (cryptox.Key, error) {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, errNotLoggedIn)
		return cryptox.Key{}, errNotLoggedIn
	}
	k, err := a.keys.Key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked, type 'login' to unlock")
		return cryptox.Key{}, err
	}
	return k, nil
}

// persist writes the in-memory vault to the local cache.
func (a *App) persist(synced bool) {
	if a.cache == nil {
		return
	}
	ctx := context.Background()
	if err := a.cache.SaveVault(a.snapshot()); err != nil {
		a.logger.Warn(ctx, "cache write failed", "error", err)
		return
	}
	if synced {
		if err := a.cache.MarkSynced(a.now()); err != nil && !errors.Is(err, common.ErrorNotFound) {
			a.logger.Warn(ctx, "cache write failed", "error", err)
		}
	}
}

// broadcast mirrors the current vault to the extension.
func (a *App) broadcast() {
	msg, err := bridge.NewSnapshot(a.snapshot())
	if err != nil {
		a.logger.Warn(context.Background(), "snapshot encoding failed", "error", err)
		return
	}
	a.bridge.Publish(msg)
}

// commit makes items the vault and pushes it. A failed push keeps the local
// change; the next sync retries it.
func (a *App) commit(ctx context.Context, items []models.Item) error {
	vault, err := a.vaultSync()
	if err != nil {
		return err
	}
	key, err := a.unlocked()
	if err != nil {
		return err
	}
	defer key.Wipe()

	a.setItems(items)

	res, err := vault.Push(ctx, key, items)
	if err != nil {
		if errors.Is(err, common.ErrRemoteUnavailable) {
			a.setMode(ModeOffline)
		}
		a.logger.Warn(ctx, "push failed", "error", err)
		fmt.Fprintln(a.out, "Saved locally, will sync when the store is reachable")
		a.persist(false)
		a.broadcast()
		return nil
	}

	a.logger.Debug(ctx, "pushed vault", "created", res.Created, "updated", res.Updated, "deleted", res.Deleted)
	a.persist(true)
	a.broadcast()
	return nil
}

// findItem resolves an id or a 1-based position from the last list.
func findItem(items []models.Item, ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return n - 1, true
	}
	for i, it := range items {
		if it.ID == ref {
			return i, true
		}
	}
	return -1, false
}

func (a *App) pickItem(prompt string) (models.Item, []models.Item, error) {
	items := a.snapshot()
	ref, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return models.Item{}, nil, err
	}
	i, ok := findItem(items, ref)
	if !ok {
		fmt.Fprintln(a.out, "No such item:", ref)
		return models.Item{}, nil, common.ErrorNotFound
	}
	return items[i], items, nil
}

// List prints the vault, one item per line.
func (a *App) List(ctx context.Context) error {
	if _, err := a.unlocked(); err != nil {
		return err
	}
	items := a.snapshot()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Vault is empty")
		return nil
	}
	for i, it := range items {
		fmt.Fprintf(a.out, "%3d  %-8s %s  (%s)\n", i+1, it.Type(), it.Title, it.ID)
	}
	return nil
}

// Show prints every field of one item.
func (a *App) Show(ctx context.Context) error {
	if _, err := a.unlocked(); err != nil {
		return err
	}
	it, _, err := a.pickItem("Enter item number or ID")
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, describe(it))
	return nil
}

func describe(it models.Item) string {
	var b strings.Builder
	line := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%-16s %s\n", k+":", v)
		}
	}

	line("ID", it.ID)
	line("Title", it.Title)
	line("Type", string(it.Type()))

	switch p := it.Payload.(type) {
	case models.Login:
		line("Username", p.Username)
		line("Password", p.Password)
		line("URL", p.URL)
		line("TOTP", p.TOTP)
	case models.Note:
		line("Content", p.Content)
	case models.Address:
		line("Name", strings.TrimSpace(p.FirstName+" "+p.LastName))
		line("Address", p.AddressLine1)
		line("", p.AddressLine2)
		line("City", p.City)
		line("State", p.State)
		line("Postal code", p.PostalCode)
		line("Country", p.Country)
	case models.Card:
		line("Cardholder", p.CardholderName)
		line("Number", p.CardNumber)
		if p.ExpirationMonth != "" || p.ExpirationYear != "" {
			line("Expires", p.ExpirationMonth+"/"+p.ExpirationYear)
		}
		line("CVV", p.CVV)
	}

	line("Notes", it.Notes)
	if it.Favorite {
		line("Favorite", "yes")
	}
	line("Category", it.Category)
	return b.String()
}

// inputItem asks for the title, builds the payload with rest and finally
// the free-form notes.
func (a *App) inputItem(ctx context.Context, rest func(ctx context.Context) (models.Payload, error)) (models.Item, error) {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return models.Item{}, fmt.Errorf("get title: %w", err)
	}
	if title == "" {
		return models.Item{}, fmt.Errorf("title is required")
	}
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}

	payload, err := rest(ctx)
	if err != nil {
		return models.Item{}, err
	}

	notes, err := getSimpleText(a.reader, "Enter notes (optional)", a.out)
	if err != nil {
		return models.Item{}, err
	}

	it := models.NewItem(title, payload, a.now())
	it.Notes = notes
	return it, nil
}

func (a *App) addItem(ctx context.Context, rest func(ctx context.Context) (models.Payload, error)) error {
	if _, err := a.unlocked(); err != nil {
		return err
	}
	it, err := a.inputItem(ctx, rest)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	if err := a.commit(ctx, append(a.snapshot(), it)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q\n", it.Title)
	return nil
}

func (a *App) AddLogin(ctx context.Context) error {
	return a.addItem(ctx, func(context.Context) (models.Payload, error) {
		var l models.Login
		var err error
		if l.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return nil, err
		}
		if l.Password, err = getSimpleText(a.reader, "Enter password (empty to generate)", a.out); err != nil {
			return nil, err
		}
		if l.Password == "" {
			if l.Password, err = cryptox.GeneratePassword(defaultPasswordLength); err != nil {
				return nil, err
			}
			fmt.Fprintln(a.out, "Generated password:", l.Password)
		}
		if l.URL, err = getSimpleText(a.reader, "Enter URL", a.out); err != nil {
			return nil, err
		}
		if l.TOTP, err = getSimpleText(a.reader, "Enter TOTP secret (optional)", a.out); err != nil {
			return nil, err
		}
		return l, nil
	})
}

func (a *App) AddNote(ctx context.Context) error {
	return a.addItem(ctx, func(context.Context) (models.Payload, error) {
		content, err := GetMultiline(a.reader, "Enter note", a.out)
		if err != nil {
			return nil, err
		}
		return models.Note{Content: content}, nil
	})
}

func (a *App) AddAddress(ctx context.Context) error {
	return a.addItem(ctx, func(context.Context) (models.Payload, error) {
		var p models.Address
		fields := []struct {
			prompt string
			dst    *string
		}{
			{"Enter first name", &p.FirstName},
			{"Enter last name", &p.LastName},
			{"Enter address line 1", &p.AddressLine1},
			{"Enter address line 2", &p.AddressLine2},
			{"Enter city", &p.City},
			{"Enter state", &p.State},
			{"Enter postal code", &p.PostalCode},
			{"Enter country", &p.Country},
		}
		for _, f := range fields {
			v, err := getSimpleText(a.reader, f.prompt, a.out)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		return p, nil
	})
}

func (a *App) AddCard(ctx context.Context) error {
	return a.addItem(ctx, func(context.Context) (models.Payload, error) {
		var p models.Card
		fields := []struct {
			prompt string
			dst    *string
		}{
			{"Enter cardholder name", &p.CardholderName},
			{"Enter card number", &p.CardNumber},
			{"Enter expiration month (MM)", &p.ExpirationMonth},
			{"Enter expiration year (YYYY)", &p.ExpirationYear},
			{"Enter CVV", &p.CVV},
		}
		for _, f := range fields {
			v, err := getSimpleText(a.reader, f.prompt, a.out)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		if p.CardNumber == "" {
			return nil, fmt.Errorf("card number is required")
		}
		return p, nil
	})
}

// Delete removes an item after confirmation. The store keeps a tombstone.
func (a *App) Delete(ctx context.Context) error {
	if _, err := a.unlocked(); err != nil {
		return err
	}
	it, items, err := a.pickItem("Enter item number or ID to delete")
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete %q?", it.Title), a.out)
	if err != nil || !ok {
		return err
	}

	items = slices.DeleteFunc(items, func(x models.Item) bool { return x.ID == it.ID })
	if err := a.commit(ctx, items); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %q\n", it.Title)
	return nil
}

// Search asks the store first and falls back to matching titles locally.
func (a *App) Search(ctx context.Context) error {
	vault, err := a.vaultSync()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	key, err := a.unlocked()
	if err != nil {
		return err
	}
	defer key.Wipe()

	term, err := getSimpleText(a.reader, "Search for", a.out)
	if err != nil {
		return err
	}

	found, err := vault.Search(ctx, key, term)
	if err != nil {
		a.logger.Warn(ctx, "remote search failed, searching locally", "error", err)
		found = nil
		needle := strings.ToLower(term)
		for _, it := range a.snapshot() {
			if strings.Contains(strings.ToLower(it.Title), needle) {
				found = append(found, it)
			}
		}
	}

	if len(found) == 0 {
		fmt.Fprintln(a.out, "Nothing found")
		return nil
	}
	for _, it := range found {
		fmt.Fprintf(a.out, "  %-8s %s  (%s)\n", it.Type(), it.Title, it.ID)
	}
	return nil
}

// Generate prints a random password.
func (a *App) Generate(ctx context.Context) error {
	s, err := getSimpleText(a.reader, fmt.Sprintf("Length (default %d)", defaultPasswordLength), a.out)
	if err != nil {
		return err
	}
	n := defaultPasswordLength
	if s != "" {
		if n, err = strconv.Atoi(s); err != nil {
			fmt.Fprintln(a.out, "Invalid length:", s)
			return err
		}
	}
	pw, err := cryptox.GeneratePassword(n)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	fmt.Fprintln(a.out, pw)
	return nil
}

// Sync pushes local changes and reloads the vault from the store.
func (a *App) Sync(ctx context.Context) error {
	if _, err := a.vaultSync(); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	if err := a.commit(ctx, a.snapshot()); err != nil {
		return err
	}
	if err := a.load(ctx); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	fmt.Fprintf(a.out, "Synced (%d items)\n", len(a.snapshot()))
	return nil
}
