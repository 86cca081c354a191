package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mousey-app/dashboard/shared/snowflake"
)

type User struct {
	Id            snowflake.ID  `json:"id" validate:"required"`
	Name          string        `json:"name" validate:"required"`
	Discriminator Discriminator `json:"discriminator"`
	Avatar        *string       `json:"avatar,omitempty"`
	Bot           bool          `json:"bot,omitempty"`
}

// Tag returns "name#discriminator".
func (u User) Tag() string {
	return u.Name + "#" + string(u.Discriminator)
}

type Channel struct {
	Id   snowflake.ID `json:"id"`
	Name string       `json:"name"`
}

type Message struct {
	Id          snowflake.ID      `json:"id" validate:"required"`
	Author      User              `json:"author" validate:"required"`
	Channel     *Channel          `json:"channel,omitempty"`
	Content     string            `json:"content"`
	DeletedAt   Stamp             `json:"deleted_at,omitempty"`
	EditedAt    Stamp             `json:"edited_at,omitempty"`
	Attachments []string          `json:"attachments"`
	Embeds      []json.RawMessage `json:"embeds,omitempty"`
	Mentions    map[string]*User  `json:"mentions,omitempty"`
}

func (m Message) IsDeleted() bool { return m.DeletedAt.IsSet() }
func (m Message) IsEdited() bool  { return m.EditedAt.IsSet() }

type Archive struct {
	Id       snowflake.ID
	Messages []Message
}

// Stamp is an optional timestamp whose encoding the dashboard does not rely on;
// only its presence changes how a message is shown.
type Stamp []byte

func (s Stamp) IsSet() bool {
	v := strings.TrimSpace(string(s))
	return v != "" && v != "null" && v != `""`
}

func (s *Stamp) UnmarshalJSON(data []byte) error {
	*s = append((*s)[:0], data...)
	return nil
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// Discriminator is the 4 digit user tag suffix. The API may send it as a
// string or as a number; numbers are zero padded.
type Discriminator string

func (d *Discriminator) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*d = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Discriminator(s)
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid discriminator %s: %w", raw, err)
	}
	*d = Discriminator(fmt.Sprintf("%04d", n))
	return nil
}

// Int returns the numeric value, or 0 when the discriminator is not a number.
func (d Discriminator) Int() int {
	n, err := strconv.Atoi(string(d))
	if err != nil {
		return 0
	}
	return n
}
