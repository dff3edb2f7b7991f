package config

// SMTPAddr is the relay used for password-change notifications. Empty
// disables notifications.
func SMTPAddr() string {
	return GetEnv("SMTP_ADDR", "")
}

// SMTPFrom is the envelope and header sender of notifications.
func SMTPFrom() string {
	return GetEnv("SMTP_FROM", "no-reply@localhost")
}

// SMTPHelo is the name announced to the relay.
func SMTPHelo() string {
	return GetEnv("SMTP_HELO", "localhost")
}

// DKIMDomain and DKIMSelector identify the signing key in DNS. Signing is
// skipped unless DKIMKeySeed is also set.
func DKIMDomain() string {
	return GetEnv("DKIM_DOMAIN", "")
}

func DKIMSelector() string {
	return GetEnv("DKIM_SELECTOR", "portal")
}

// DKIMKeySeed is the hex encoded 32-byte Ed25519 seed of the signing key.
func DKIMKeySeed() string {
	return GetEnv("DKIM_KEY_SEED", "")
}

// SMTPSinkAddr, when set, makes the service run a local SMTP listener that
// accepts and logs notifications. Point SMTP_ADDR at it for development.
func SMTPSinkAddr() string {
	return GetEnv("SMTP_SINK_ADDR", "")
}

// SMTPSinkDomain is the name the sink announces.
func SMTPSinkDomain() string {
	return GetEnv("SMTP_SINK_DOMAIN", "localhost")
}

// SMTPMaxMessageBytes caps messages the sink accepts.
func SMTPMaxMessageBytes() int {
	return parseIntEnv("SMTP_MAX_MESSAGE_BYTES", 1<<20)
}
