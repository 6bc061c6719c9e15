package entity

// Claves de system_settings que consume el núcleo (solo lectura).
const (
	SettingCommissionRate = "commission_rate"
	SettingDiscordWebhook = "discord_webhook"
)
