package session

import (
	"fmt"

	"github.com/bluehost/pam-rbld/internal/rbld/domain"
)

// Item names a PAM item the checker reads from the handle.
type Item uint8

const (
	ItemService Item = iota
	ItemRemoteHost
)

// String returns the C macro name of the item.
func (i Item) String() string {
	switch i {
	case ItemService:
		return "PAM_SERVICE"
	case ItemRemoteHost:
		return "PAM_RHOST"
	default:
		return fmt.Sprintf("Item(%d)", i)
	}
}

// ItemFunc reads one item from a PAM handle. ok is false when the item is NULL;
// err is set when pam_get_item itself fails.
type ItemFunc func(item Item) (value string, ok bool, err error)

// Items is a session context backed by a PAM handle, used by the service
// module. The hook is known from the entry point PAM called.
type Items struct {
	get  ItemFunc
	hook domain.Hook
}

// NewItems returns a session context reading from get.
func NewItems(get ItemFunc, hook domain.Hook) *Items {
	return &Items{get: get, hook: hook}
}

// Service returns the calling PAM service name.
func (s *Items) Service() (string, error) {
	v, ok, err := s.get(ItemService)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrContext, ItemService, err)
	}
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrContext, ItemService)
	}
	return v, nil
}

// RemoteHost returns PAM_RHOST and whether it was set at all.
func (s *Items) RemoteHost() (string, bool, error) {
	return s.get(ItemRemoteHost)
}

// Hook returns the management group of the entry point.
func (s *Items) Hook() domain.Hook {
	return s.hook
}
