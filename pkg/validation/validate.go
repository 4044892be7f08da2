package validation

import (
	"fmt"
	"strings"
)

// Error reports a rejected field on a post request. The field name is part
// of the contract: callers surface it so the user can fix the input.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Rules holds the configurable constraints applied to board posts before
// they reach the repository. Zero values disable the corresponding check.
type Rules struct {
	NicknameMaxLen int
	ContentMinLen  int
	ContentMaxLen  int
	AvatarGlyphs   []string
}

// ValidateRequired checks the presence constraints the repository always
// enforces: avatar, nickname and content must be non-empty after trimming.
func ValidateRequired(avatar, nickname, content string) error {
	if strings.TrimSpace(avatar) == "" {
		return &Error{Field: "avatar", Reason: "required"}
	}
	if strings.TrimSpace(nickname) == "" {
		return &Error{Field: "nickname", Reason: "required"}
	}
	if strings.TrimSpace(content) == "" {
		return &Error{Field: "content", Reason: "required"}
	}
	return nil
}

// ValidatePost applies the full rule set: presence plus the configured
// length and glyph constraints.
func (r Rules) ValidatePost(avatar, nickname, content string) error {
	if err := ValidateRequired(avatar, nickname, content); err != nil {
		return err
	}
	nickname = strings.TrimSpace(nickname)
	content = strings.TrimSpace(content)
	if r.NicknameMaxLen > 0 && len([]rune(nickname)) > r.NicknameMaxLen {
		return &Error{Field: "nickname", Reason: fmt.Sprintf("longer than %d characters", r.NicknameMaxLen)}
	}
	if r.ContentMinLen > 0 && len([]rune(content)) < r.ContentMinLen {
		return &Error{Field: "content", Reason: fmt.Sprintf("shorter than %d characters", r.ContentMinLen)}
	}
	if r.ContentMaxLen > 0 && len([]rune(content)) > r.ContentMaxLen {
		return &Error{Field: "content", Reason: fmt.Sprintf("longer than %d characters", r.ContentMaxLen)}
	}
	if len(r.AvatarGlyphs) > 0 && !contains(r.AvatarGlyphs, avatar) {
		return &Error{Field: "avatar", Reason: "not one of the configured glyphs"}
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
