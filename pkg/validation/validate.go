package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
)

// Rules drives request validation. Zero values disable the corresponding
// check so deployments can relax limits from config.
type Rules struct {
	MaxTextLen  int
	MaxNameLen  int
	AllowedKind []string
}

var rules = Rules{
	MaxTextLen:  4096,
	MaxNameLen:  255,
	AllowedKind: []string{models.MessageTypeText, models.MessageTypeImage, models.MessageTypeVideo, models.MessageTypeFile, models.MessageTypeVoice, models.MessageTypeAudio},
}

func SetRules(r Rules) { rules = r }

// ValidateSend checks an inbound send request before anything is written.
func ValidateSend(chatID, senderID, text string) error {
	var errs []string
	if chatID == "" {
		errs = append(errs, "chat id is required")
	}
	if senderID == "" {
		errs = append(errs, "sender id is required")
	}
	if rules.MaxTextLen > 0 && utf8.RuneCountInString(text) > rules.MaxTextLen {
		errs = append(errs, fmt.Sprintf("text too long: %d > %d", utf8.RuneCountInString(text), rules.MaxTextLen))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ValidateUpload checks an inbound media upload before the blob is stored.
func ValidateUpload(chatID, senderID, kind, name string) error {
	var errs []string
	if chatID == "" {
		errs = append(errs, "chat id is required")
	}
	if senderID == "" {
		errs = append(errs, "sender id is required")
	}
	if len(rules.AllowedKind) > 0 && !contains(rules.AllowedKind, kind) {
		errs = append(errs, fmt.Sprintf("invalid kind: %s", kind))
	}
	if name == "" {
		errs = append(errs, "file name is required")
	} else if rules.MaxNameLen > 0 && len(name) > rules.MaxNameLen {
		errs = append(errs, fmt.Sprintf("file name too long: %d > %d", len(name), rules.MaxNameLen))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ValidateUser checks a registration payload.
func ValidateUser(u models.User) error {
	var errs []string
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, "name is required")
	}
	if rules.MaxNameLen > 0 && len(u.Name) > rules.MaxNameLen {
		errs = append(errs, fmt.Sprintf("name too long: %d > %d", len(u.Name), rules.MaxNameLen))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
