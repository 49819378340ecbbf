package prefs

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vntrieu/deception/internal/catalog"
	"github.com/vntrieu/deception/internal/games"
)

// Store is a small file-backed preference store: display name, avatar color,
// and default room settings. A missing or corrupt file degrades to defaults,
// every setter writes the file back out.
type Store struct {
	v    *viper.Viper
	path string
	rng  *rand.Rand
	log  *zap.Logger
}

// Open reads preferences from path. The file does not have to exist.
func Open(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		logger.Debug("preferences unavailable, using defaults",
			zap.String("path", path), zap.Error(err))
		v = viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("json")
	}
	return &Store{
		v:    v,
		path: path,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:  logger,
	}
}

// DisplayName returns the stored display name, or empty when unset.
func (s *Store) DisplayName() string {
	return s.v.GetString("display_name")
}

// AvatarColor returns the stored avatar color. A color outside the palette
// is replaced with a random palette entry.
func (s *Store) AvatarColor() string {
	color := s.v.GetString("avatar_color")
	if catalog.IsAvatarColor(color) {
		return color
	}
	colors := catalog.AvatarColors()
	return colors[s.rng.Intn(len(colors))]
}

// RoomSettings returns the stored default room settings. Stored values are
// used only when they parse and pass the lobby bounds; anything else falls
// back to games.DefaultRoomSettings.
func (s *Store) RoomSettings() games.RoomSettings {
	def := games.DefaultRoomSettings()
	raw := s.v.Get("room_settings")
	if raw == nil {
		return def
	}
	blob, err := json.Marshal(raw)
	if err != nil {
		return def
	}
	settings := def
	if err := json.Unmarshal(blob, &settings); err != nil {
		s.log.Debug("stored room settings unreadable, using defaults", zap.Error(err))
		return def
	}
	cfg := games.DefaultConfig()
	if settings.MaxPlayers < cfg.MinPlayers || settings.MaxPlayers > cfg.MaxPlayers {
		settings.MaxPlayers = def.MaxPlayers
	}
	if settings.RoundTimeSeconds < 60 || settings.RoundTimeSeconds > 900 {
		settings.RoundTimeSeconds = def.RoundTimeSeconds
	}
	return settings
}

// SetDisplayName stores and persists the display name.
func (s *Store) SetDisplayName(name string) error {
	s.v.Set("display_name", name)
	return s.write()
}

// SetAvatarColor stores and persists the avatar color.
func (s *Store) SetAvatarColor(color string) error {
	s.v.Set("avatar_color", color)
	return s.write()
}

// SetRoomSettings stores and persists default room settings.
func (s *Store) SetRoomSettings(settings games.RoomSettings) error {
	blob, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(blob, &raw); err != nil {
		return err
	}
	s.v.Set("room_settings", raw)
	return s.write()
}

func (s *Store) write() error {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		s.log.Warn("write preferences failed", zap.String("path", s.path), zap.Error(err))
		return err
	}
	return nil
}
