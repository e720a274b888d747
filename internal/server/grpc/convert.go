package grpc

import (
	pb "github.com/dmitrijs2005/cryptopass/internal/proto"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

func entryToDocument(e *pb.Entry) *models.Document {
	if e == nil {
		return nil
	}
	return &models.Document{
		RemoteID:      e.RemoteId,
		EntryID:       e.EntryId,
		ItemType:      e.ItemType,
		ServiceName:   e.ServiceName,
		EncryptedData: e.EncryptedData,
		IV:            e.Iv,
		Category:      e.Category,
		Favorite:      e.Favorite,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func documentToEntry(d *models.Document) *pb.Entry {
	return &pb.Entry{
		RemoteId:      d.RemoteID,
		EntryId:       d.EntryID,
		ItemType:      d.ItemType,
		ServiceName:   d.ServiceName,
		EncryptedData: d.EncryptedData,
		Iv:            d.IV,
		Category:      d.Category,
		Favorite:      d.Favorite,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func documentsToEntries(docs []*models.Document) []*pb.Entry {
	out := make([]*pb.Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentToEntry(d))
	}
	return out
}

func shareToModel(s *pb.Share) *models.Share {
	if s == nil {
		return nil
	}
	return &models.Share{
		ID:               s.Id,
		FromWalletHash:   s.FromWalletHash,
		ToWalletHash:     s.ToWalletHash,
		SenderAddress:    s.SenderAddress,
		EncryptedPayload: s.EncryptedPayload,
		IV:               s.Iv,
		SharedKey:        s.SharedKey,
		TxHash:           s.TxHash,
		Title:            s.Title,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
		ExpiresAt:        s.ExpiresAt,
	}
}

func shareFromModel(s *models.Share) *pb.Share {
	return &pb.Share{
		Id:               s.ID,
		FromWalletHash:   s.FromWalletHash,
		ToWalletHash:     s.ToWalletHash,
		SenderAddress:    s.SenderAddress,
		EncryptedPayload: s.EncryptedPayload,
		Iv:               s.IV,
		SharedKey:        s.SharedKey,
		TxHash:           s.TxHash,
		Title:            s.Title,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
		ExpiresAt:        s.ExpiresAt,
	}
}
