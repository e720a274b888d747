package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/client/repositories/notifications"
	"github.com/google/uuid"
)

// NotificationService keeps the local notification list of one wallet.
type NotificationService struct {
	repo  notifications.Repository
	owner string
	now   func() time.Time
}

func NewNotificationService(repo notifications.Repository, address string) *NotificationService {
	return &NotificationService{repo: repo, owner: strings.ToLower(address), now: time.Now}
}

// ForOwner returns a service bound to another wallet on the same device.
func (n *NotificationService) ForOwner(address string) *NotificationService {
	return &NotificationService{repo: n.repo, owner: strings.ToLower(address), now: n.now}
}

func (n *NotificationService) Add(ctx context.Context, typ models.NotificationType, title, message, shareID string) (models.Notification, error) {
	note := models.Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Message:   message,
		ShareID:   shareID,
		CreatedAt: n.now().UnixMilli(),
	}
	if err := n.repo.Add(ctx, n.owner, note); err != nil {
		return models.Notification{}, err
	}
	return note, nil
}

func (n *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	return n.repo.List(ctx, n.owner)
}

// MarkAsRead reports whether this call flipped the flag.
func (n *NotificationService) MarkAsRead(ctx context.Context, id string) (bool, error) {
	return n.repo.MarkRead(ctx, n.owner, id)
}

func (n *NotificationService) MarkAllAsRead(ctx context.Context) error {
	return n.repo.MarkAllRead(ctx, n.owner)
}

func (n *NotificationService) Remove(ctx context.Context, id string) error {
	return n.repo.Delete(ctx, n.owner, id)
}

func (n *NotificationService) ClearAll(ctx context.Context) error {
	return n.repo.Clear(ctx, n.owner)
}

func (n *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	return n.repo.UnreadCount(ctx, n.owner)
}
