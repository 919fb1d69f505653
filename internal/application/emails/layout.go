package emails

import (
	"fmt"
	"html"
	"time"
)

const (
	themePrimary   = "#E4572E"
	themeTextMain  = "#1F2937"
	themeTextMuted = "#6B7280"
	themeBgBody    = "#F3F4F6"
	themeWhite     = "#FFFFFF"
)

// EmailLayout wraps content in the shared RoomRento HTML shell.
func EmailLayout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>RoomRento</title>
  <style>
    body { margin: 0; padding: 0; width: 100%% !important; background-color: %s; }
    body, td, p, a, li { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; color: %s; }
    .content-body p { margin: 0 0 20px 0; font-size: 16px; line-height: 1.6; }
    .content-body h1 { font-size: 22px; margin: 0 0 18px 0; }
    .rr-button { display: inline-block; background-color: %s; color: #ffffff !important; padding: 12px 28px; text-decoration: none !important; border-radius: 6px; font-weight: 600; }
    .footer-text { color: %s; font-size: 13px; }
  </style>
</head>
<body style="background-color: %s;">
  <table role="presentation" width="100%%" border="0" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 32px 0;">
        <table role="presentation" width="600" style="background-color: %s; border-radius: 8px;">
          <tr><td align="center" style="padding: 32px 0 16px 0; font-size: 24px; font-weight: 700; color: %s;">RoomRento</td></tr>
          <tr><td class="content-body" style="padding: 0 40px 24px 40px;">%s</td></tr>
          <tr><td align="center" style="padding: 16px 40px 32px 40px;"><p class="footer-text">© %d RoomRento. You receive this email because you use RoomRento.</p></td></tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`,
		themeBgBody, themeTextMain, themePrimary, themeTextMuted,
		themeBgBody, themeWhite, themePrimary, contentHTML, time.Now().Year())
}

// EscapeHTML escapes user text (listing titles, names, messages) for the
// email body.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
