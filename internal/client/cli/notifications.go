package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/client/services"
)

func (a *App) notifications() (*services.NotificationService, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.notes == nil {
		return nil, errNotLoggedIn
	}
	return a.notes, nil
}

// Notifications lists notifications newest first; unread ones are starred.
func (a *App) Notifications(ctx context.Context) error {
	notes, err := a.notifications()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	list, err := notes.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}
	for _, n := range list {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s: %s  (%s)\n", mark, formatMillis(n.CreatedAt), n.Title, n.Message, n.ID)
	}
	return nil
}

// Read marks one notification, or all of them, as read.
func (a *App) Read(ctx context.Context) error {
	notes, err := a.notifications()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	id, err := getSimpleText(a.reader, "Notification ID (or 'all')", a.out)
	if err != nil {
		return err
	}
	if id == "all" {
		return notes.MarkAllAsRead(ctx)
	}
	if _, err := notes.MarkAsRead(ctx, id); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	return nil
}

// ClearNotifications deletes every notification of the signed-in wallet.
func (a *App) ClearNotifications(ctx context.Context) error {
	notes, err := a.notifications()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	return notes.ClearAll(ctx)
}
