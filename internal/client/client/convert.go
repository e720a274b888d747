package client

import (
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	pb "github.com/dmitrijs2005/cryptopass/internal/proto"
)

func envelopeToEntry(e models.Envelope) *pb.Entry {
	return &pb.Entry{
		RemoteId:      e.RemoteID,
		EntryId:       e.ID,
		ItemType:      string(e.ItemType),
		ServiceName:   e.ServiceName,
		EncryptedData: e.EncryptedData,
		Iv:            e.IV,
		Category:      e.Category,
		Favorite:      e.Favorite,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func patchToEntry(p models.Patch) *pb.Entry {
	return &pb.Entry{
		ItemType:      string(p.ItemType),
		ServiceName:   p.ServiceName,
		EncryptedData: p.EncryptedData,
		Iv:            p.IV,
		Category:      p.Category,
		Favorite:      p.Favorite,
		UpdatedAt:     p.UpdatedAt,
	}
}

func entryToEnvelope(e *pb.Entry) models.Envelope {
	return models.Envelope{
		ID:            e.EntryId,
		ItemType:      models.ItemType(e.ItemType),
		ServiceName:   e.ServiceName,
		EncryptedData: e.EncryptedData,
		IV:            e.Iv,
		Category:      e.Category,
		Favorite:      e.Favorite,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		RemoteID:      e.RemoteId,
	}
}

func entriesToEnvelopes(entries []*pb.Entry) []models.Envelope {
	out := make([]models.Envelope, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToEnvelope(e))
	}
	return out
}

func shareToPB(r models.ShareRequest) *pb.Share {
	return &pb.Share{
		Id:               r.ID,
		FromWalletHash:   r.FromWalletHash,
		ToWalletHash:     r.ToWalletHash,
		SenderAddress:    r.SenderAddress,
		EncryptedPayload: r.EncryptedPayload,
		Iv:               r.IV,
		SharedKey:        r.SharedKey,
		TxHash:           r.TxHash,
		Title:            r.Title,
		Status:           string(r.Status),
		CreatedAt:        r.CreatedAt,
		ExpiresAt:        r.ExpiresAt,
	}
}

func shareFromPB(s *pb.Share) models.ShareRequest {
	if s == nil {
		return models.ShareRequest{}
	}
	return models.ShareRequest{
		ID:               s.Id,
		FromWalletHash:   s.FromWalletHash,
		ToWalletHash:     s.ToWalletHash,
		SenderAddress:    s.SenderAddress,
		EncryptedPayload: s.EncryptedPayload,
		IV:               s.Iv,
		SharedKey:        s.SharedKey,
		TxHash:           s.TxHash,
		Title:            s.Title,
		Status:           models.ShareStatus(s.Status),
		CreatedAt:        s.CreatedAt,
		ExpiresAt:        s.ExpiresAt,
	}
}
