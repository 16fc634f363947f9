package enums

import "strings"

type MailProvider string

const (
	MailProviderInvalid MailProvider = ""
	MailProviderSMTP    MailProvider = "smtp"
	MailProviderResend  MailProvider = "resend"
)

func ParseMailProvider(s string) MailProvider {
	switch MailProvider(strings.ToLower(strings.TrimSpace(s))) {
	case MailProviderSMTP:
		return MailProviderSMTP
	case MailProviderResend:
		return MailProviderResend
	default:
		return MailProviderInvalid
	}
}
