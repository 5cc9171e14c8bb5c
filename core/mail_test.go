package core_test

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveshhq/pravesh/core"
)

func TestEmailMessage_Render(t *testing.T) {
	t.Run("otp template renders both bodies", func(t *testing.T) {
		msg := &core.EmailMessage{
			To:           []mail.Address{{Name: "Asha Patel", Address: "asha@example.com"}},
			Subject:      "Your OTP for Verification",
			TemplateName: "otp",
			TemplateData: struct {
				Name      string
				OTP       string
				ExpiresIn string
			}{Name: "Asha Patel", OTP: "123456", ExpiresIn: "5 minutes"},
		}

		require.NoError(t, msg.Render("https://portal.example.com"))

		require.True(t, msg.HasContent())
		assert.Contains(t, msg.TextContent, "123456")
		assert.Contains(t, msg.TextContent, "Asha Patel")
		assert.Contains(t, msg.HTMLContent, "123456")
		assert.Contains(t, msg.HTMLContent, "5 minutes")
	})

	t.Run("plain body passes through untemplated", func(t *testing.T) {
		msg := &core.EmailMessage{
			To:      []mail.Address{{Address: "asha@example.com"}},
			Subject: "Hello",
			BodyStr: "plain text",
		}

		require.NoError(t, msg.Render(""))
		assert.Equal(t, "plain text", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
	})
}
