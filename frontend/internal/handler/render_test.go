package handler

import (
	"testing"
	"time"

	"github.com/mousey-app/dashboard/shared/domain"
	"github.com/mousey-app/dashboard/shared/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cdn = "https://cdn.discordapp.com"

func strPtr(s string) *string { return &s }

func TestAvatar(t *testing.T) {
	tests := []struct {
		name        string
		user        domain.User
		wantDefault bool
		wantPNG     string
		wantWebP    string
		wantAlt     string
	}{
		{
			name:        "default by discriminator",
			user:        domain.User{Id: 1, Name: "a", Discriminator: "0007"},
			wantDefault: true,
			wantPNG:     cdn + "/embed/avatars/2.png?size=128",
			wantAlt:     "default avatar",
		},
		{
			name:        "empty hash is default",
			user:        domain.User{Id: 1, Name: "a", Discriminator: "0005", Avatar: strPtr("")},
			wantDefault: true,
			wantPNG:     cdn + "/embed/avatars/0.png?size=128",
			wantAlt:     "default avatar",
		},
		{
			name:     "custom",
			user:     domain.User{Id: 175928847299117063, Name: "a", Discriminator: "0001", Avatar: strPtr("a_1f2e")},
			wantPNG:  cdn + "/avatars/175928847299117063/a_1f2e.png?size=128",
			wantWebP: cdn + "/avatars/175928847299117063/a_1f2e.webp?size=128",
			wantAlt:  "avatar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := avatar(tt.user, cdn)
			assert.Equal(t, tt.wantDefault, a.Default)
			assert.Equal(t, tt.wantPNG, a.PNG)
			assert.Equal(t, tt.wantWebP, a.WebP)
			assert.Equal(t, tt.wantAlt, a.Alt)
		})
	}
}

func TestAttachment(t *testing.T) {
	a, err := attachment("/attachments/123/456/cat picture.png", cdn)
	require.NoError(t, err)
	assert.Equal(t, "cat picture.png", a.Filename)
	assert.Equal(t, cdn+"/attachments/123/456/cat picture.png", a.URL)

	for _, p := range []string{"/attachments/123/cat.png", "/attachments/x/456/cat.png", "attachments/1/2/cat.png", "/avatars/1/2/x.png"} {
		_, err := attachment(p, cdn)
		assert.ErrorIs(t, err, ErrAttachmentPath, p)
	}
}

func TestRenderMessage(t *testing.T) {
	id := snowflake.FromTime(time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC))
	m := domain.Message{
		Id:          id,
		Author:      domain.User{Id: 1, Name: "mousey", Discriminator: "0001", Bot: true},
		Channel:     &domain.Channel{Id: 2, Name: "general"},
		Content:     "<b>not html</b>",
		DeletedAt:   domain.Stamp(`"2021-06-02T00:00:00Z"`),
		Attachments: []string{"/attachments/1/2/a.png"},
	}

	r, err := renderMessage(m, time.UTC, cdn+"/")
	require.NoError(t, err)
	assert.Equal(t, "message deleted", r.Classes)
	assert.Equal(t, "2021-06-01 12:00:00", r.Timestamp)
	assert.Equal(t, "general", r.ChannelName)
	assert.Equal(t, "<b>not html</b>", r.Content, "escaping is left to html/template")
	require.Len(t, r.Attachments, 1)
	assert.Equal(t, cdn+"/attachments/1/2/a.png", r.Attachments[0].URL)

	m.DeletedAt = domain.Stamp("null")
	m.Channel = nil
	r, err = renderMessage(m, time.UTC, cdn)
	require.NoError(t, err)
	assert.Equal(t, "message", r.Classes)
	assert.Empty(t, r.ChannelName)
}

func TestSortMessages(t *testing.T) {
	messages := []domain.Message{{Id: 3}, {Id: 1}, {Id: 2}}
	sortMessages(messages)
	assert.Equal(t, []snowflake.ID{1, 2, 3}, []snowflake.ID{messages[0].Id, messages[1].Id, messages[2].Id})
}
