package repository

import "context"

// SettingsRepository lectura de system_settings. El núcleo nunca escribe esta tabla.
type SettingsRepository interface {
	// Get devuelve el valor y si la clave existe.
	Get(ctx context.Context, key string) (string, bool, error)
}
