package mail

import (
	"fmt"
	"html"
)

// PasswordResetCode renders the one-time code email.
func PasswordResetCode(to, name, code string, validMinutes int) Message {
	return Message{
		To:      to,
		Subject: "Your password reset code",
		HTML: fmt.Sprintf(`<p>Hi %s,</p>
<p>Use the code below to reset your password. It expires in %d minutes.</p>
<h2 style="letter-spacing:4px">%s</h2>
<p>If you did not request a reset you can ignore this email.</p>`, html.EscapeString(name), validMinutes, code),
		Text: fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in %d minutes.\n", name, code, validMinutes),
	}
}

// PasswordChanged confirms a completed reset.
func PasswordChanged(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Your password was changed",
		HTML: fmt.Sprintf(`<p>Hi %s,</p>
<p>Your password has been reset successfully. If this was not you, contact support immediately.</p>`, html.EscapeString(name)),
		Text: fmt.Sprintf("Hi %s,\n\nYour password has been reset successfully.\n", name),
	}
}
