package services

import (
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/logging"
	"github.com/dmitrijs2005/cryptopass/internal/server/metrics"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/documents"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/shares"
)

func newMemoryBackend() *StaticBackend {
	return NewStaticBackend(documents.NewMemoryRepository(), shares.NewMemoryRepository())
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newDocumentService(c *clock) *DocumentService {
	s := NewDocumentService(newMemoryBackend(), metrics.New(), logging.NewNop())
	s.now = c.now
	return s
}

func newMailboxService(c *clock) *MailboxService {
	s := NewMailboxService(newMemoryBackend(), metrics.New(), logging.NewNop())
	s.now = c.now
	return s
}
