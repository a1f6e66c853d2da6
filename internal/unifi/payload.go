package unifi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/club-access-service/internal/domain"
)

const codeSuccess = "SUCCESS"

// envelope is the common wrapper of every developer API response.
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e envelope) ok() bool {
	// /users responses of older controllers omit the code.
	return e.Code == "" || e.Code == codeSuccess
}

type devicePayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Alias          string `json:"alias"`
	Type           string `json:"type"`
	LocationID     string `json:"location_id"`
	ConnectedUAHID string `json:"connected_uah_id"`
}

func (p devicePayload) toDomain() domain.Device {
	return domain.Device{
		ID:             p.ID,
		Name:           p.Name,
		Alias:          p.Alias,
		Type:           p.Type,
		LocationID:     p.LocationID,
		ConnectedUAHID: p.ConnectedUAHID,
	}
}

type nfcCardPayload struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type userPayload struct {
	ID        string           `json:"id"`
	FullName  string           `json:"full_name"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	NFCCards  []nfcCardPayload `json:"nfc_cards"`
}

func (u userPayload) displayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return joinName(u.FirstName, u.LastName)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

type sessionPayload struct {
	SessionID string `json:"session_id"`
}

type cardReadPayload struct {
	Token  string `json:"token"`
	CardID string `json:"card_id"`
}

// flattenDevices accepts a device list that is either flat or nested one
// level (groups of devices per hub) and returns the devices in order.
// Elements that are neither objects nor arrays are skipped.
func flattenDevices(data json.RawMessage) ([]domain.Device, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []domain.Device{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("decode device list: %w", err)
	}

	devices := make([]domain.Device, 0, len(elements))
	for i, el := range elements {
		el = bytes.TrimSpace(el)
		if len(el) == 0 {
			continue
		}
		switch el[0] {
		case '[':
			var group []devicePayload
			if err := json.Unmarshal(el, &group); err != nil {
				return nil, fmt.Errorf("decode device group %d: %w", i, err)
			}
			for _, d := range group {
				devices = append(devices, d.toDomain())
			}
		case '{':
			var d devicePayload
			if err := json.Unmarshal(el, &d); err != nil {
				return nil, fmt.Errorf("decode device %d: %w", i, err)
			}
			devices = append(devices, d.toDomain())
		}
	}
	return devices, nil
}

// matchCardToken returns the first user owning an NFC card with token.
func matchCardToken(users []userPayload, token string) *domain.DirectoryUser {
	for _, u := range users {
		for _, card := range u.NFCCards {
			if card.Token == token {
				return &domain.DirectoryUser{ID: u.ID, FullName: u.displayName()}
			}
		}
	}
	return nil
}
