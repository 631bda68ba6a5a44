// Package mail delivers the welcome email. A Sender moves a rendered Message
// over SMTP (gomail) or the SES v2 API; a Welcomer renders the liquid
// template and dispatches exactly one Message per call.
package mail
