package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/game"
)

const (
	defaultBaseDraw    = 2
	defaultOpeningHand = 5
	defaultCatalogTTL  = 5 * time.Minute
	defaultEliteEvery  = 5
	defaultBossEvery   = 10
	defaultIdleTimeout = 15 * time.Minute
	defaultReapEvery   = 30 * time.Second
	defaultEvalTimeout = 5 * time.Second
	defaultLogLevel    = "info"
)

type rawConfig struct {
	Server *struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database *struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
	Catalog  *struct {
		TTL        time.Duration `yaml:"ttl"`
		EliteEvery int           `yaml:"elite_every"`
		BossEvery  int           `yaml:"boss_every"`
	} `yaml:"catalog"`
	Battle *struct {
		Pacing      time.Duration `yaml:"pacing"`
		IdleTimeout time.Duration `yaml:"idle_timeout"`
		ReapEvery   time.Duration `yaml:"reap_every"`
	} `yaml:"battle"`
	Evaluation *struct {
		Webhooks []string      `yaml:"webhooks"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"evaluation"`

	Cards       []game.Card               `yaml:"cards"`
	Characters  []game.CharacterStats     `yaml:"characters"`
	Equipment   []game.Equipment          `yaml:"equipment"`
	Companions  []game.Companion          `yaml:"companions"`
	Difficulty  []game.DifficultyModifier `yaml:"difficulty"`
	Adversaries []game.AdversaryTemplate  `yaml:"adversaries"`
	Encounters  []game.ScriptedEncounter  `yaml:"encounters"`
}

// envOverrides are applied on top of the file. Unset variables keep the
// file value.
type envOverrides struct {
	Addr        string        `env:"CHIMERA_ADDR"`
	DB          string        `env:"CHIMERA_DB"`
	LogLevel    string        `env:"CHIMERA_LOG_LEVEL"`
	Pacing      time.Duration `env:"CHIMERA_PACING"`
	IdleTimeout time.Duration `env:"CHIMERA_IDLE_TIMEOUT"`
	Webhooks    []string      `env:"CHIMERA_EVAL_WEBHOOK" envSeparator:","`
}

// LoadedConfig is the validated runtime configuration.
type LoadedConfig struct {
	ServerAddress string
	DatabasePath  string
	LogLevel      string

	CatalogTTL time.Duration
	EliteEvery int
	BossEvery  int

	Pacing      time.Duration
	IdleTimeout time.Duration
	ReapEvery   time.Duration

	EvalWebhooks []string
	EvalTimeout  time.Duration

	Cards       []game.Card
	Characters  []game.CharacterStats
	Equipment   []game.Equipment
	Companions  []game.Companion
	Difficulty  []game.DifficultyModifier
	Adversaries []game.AdversaryTemplate
	Encounters  []game.ScriptedEncounter
}

// LoadConfig reads the YAML file at path, applies CHIMERA_* environment
// overrides and validates the result.
func LoadConfig(path string) (*LoadedConfig, error) {
	return load(path, nil)
}

// LoadConfigWithEnv is LoadConfig with an explicit environment instead of
// the process one.
func LoadConfigWithEnv(path string, environ map[string]string) (*LoadedConfig, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return load(path, environ)
}

func load(path string, environ map[string]string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := yaml.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var ov envOverrides
	if environ == nil {
		err = env.Parse(&ov)
	} else {
		err = env.ParseWithOptions(&ov, env.Options{Environment: environ})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	cfg := fromRaw(rc)
	ov.apply(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func fromRaw(rc rawConfig) *LoadedConfig {
	cfg := &LoadedConfig{
		ServerAddress: constants.DefaultAddr,
		DatabasePath:  constants.DefaultDBPath,
		LogLevel:      defaultLogLevel,
		CatalogTTL:    defaultCatalogTTL,
		EliteEvery:    defaultEliteEvery,
		BossEvery:     defaultBossEvery,
		IdleTimeout:   defaultIdleTimeout,
		ReapEvery:     defaultReapEvery,
		EvalTimeout:   defaultEvalTimeout,
		Cards:         rc.Cards,
		Characters:    rc.Characters,
		Equipment:     rc.Equipment,
		Companions:    rc.Companions,
		Difficulty:    rc.Difficulty,
		Adversaries:   rc.Adversaries,
		Encounters:    rc.Encounters,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.Database != nil && rc.Database.Path != "" {
		cfg.DatabasePath = rc.Database.Path
	}
	if rc.LogLevel != "" {
		cfg.LogLevel = rc.LogLevel
	}
	if c := rc.Catalog; c != nil {
		if c.TTL > 0 {
			cfg.CatalogTTL = c.TTL
		}
		if c.EliteEvery > 0 {
			cfg.EliteEvery = c.EliteEvery
		}
		if c.BossEvery > 0 {
			cfg.BossEvery = c.BossEvery
		}
	}
	if bc := rc.Battle; bc != nil {
		cfg.Pacing = bc.Pacing
		if bc.IdleTimeout > 0 {
			cfg.IdleTimeout = bc.IdleTimeout
		}
		if bc.ReapEvery > 0 {
			cfg.ReapEvery = bc.ReapEvery
		}
	}
	if ev := rc.Evaluation; ev != nil {
		cfg.EvalWebhooks = ev.Webhooks
		if ev.Timeout > 0 {
			cfg.EvalTimeout = ev.Timeout
		}
	}
	for i := range cfg.Characters {
		if cfg.Characters[i].BaseDraw <= 0 {
			cfg.Characters[i].BaseDraw = defaultBaseDraw
		}
		if cfg.Characters[i].OpeningHand <= 0 {
			cfg.Characters[i].OpeningHand = defaultOpeningHand
		}
	}
	return cfg
}

func (o envOverrides) apply(cfg *LoadedConfig) {
	if o.Addr != "" {
		cfg.ServerAddress = o.Addr
	}
	if o.DB != "" {
		cfg.DatabasePath = o.DB
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Pacing > 0 {
		cfg.Pacing = o.Pacing
	}
	if o.IdleTimeout > 0 {
		cfg.IdleTimeout = o.IdleTimeout
	}
	if len(o.Webhooks) > 0 {
		cfg.EvalWebhooks = o.Webhooks
	}
}

// validate performs the cross-entry checks: unique ids, known references
// and non-empty required lists.
func (c *LoadedConfig) validate() error {
	if len(c.Cards) == 0 {
		return fmt.Errorf("cards is empty (provide a 'cards' list)")
	}
	cards := make(map[string]struct{}, len(c.Cards))
	for _, card := range c.Cards {
		id := strings.TrimSpace(card.ID)
		if id == "" {
			return fmt.Errorf("card entry %q missing 'id'", card.Name)
		}
		if _, dup := cards[id]; dup {
			return fmt.Errorf("duplicate card id '%s'", id)
		}
		if !card.Category.Valid() {
			return fmt.Errorf("card '%s' has unknown category '%s'", id, card.Category)
		}
		if card.Cost < 0 {
			return fmt.Errorf("card '%s' has negative cost", id)
		}
		cards[id] = struct{}{}
	}

	if len(c.Characters) == 0 {
		return fmt.Errorf("characters is empty (provide a 'characters' list)")
	}
	chars := make(map[game.CharacterID]struct{}, len(c.Characters))
	for _, ch := range c.Characters {
		if _, ok := game.TalentOptions(ch.ID, 0); !ok {
			return fmt.Errorf("%w: '%s'", game.ErrUnknownCharacter, ch.ID)
		}
		if _, dup := chars[ch.ID]; dup {
			return fmt.Errorf("duplicate character id '%s'", ch.ID)
		}
		if ch.MaxHealth <= 0 || ch.MaxEnergy <= 0 {
			return fmt.Errorf("character '%s' needs positive max_health and max_energy", ch.ID)
		}
		if len(ch.StarterDeck) == 0 {
			return fmt.Errorf("character '%s' has an empty starter_deck", ch.ID)
		}
		for _, id := range ch.StarterDeck {
			if _, ok := cards[id]; !ok {
				return fmt.Errorf("character '%s' starter_deck references unknown card '%s'", ch.ID, id)
			}
		}
		chars[ch.ID] = struct{}{}
	}

	if err := uniqueIDs("equipment", len(c.Equipment), func(i int) string { return c.Equipment[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("companion", len(c.Companions), func(i int) string { return c.Companions[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("difficulty", len(c.Difficulty), func(i int) string { return c.Difficulty[i].ID }); err != nil {
		return err
	}

	if len(c.Adversaries) == 0 {
		return fmt.Errorf("adversaries is empty (provide an 'adversaries' roster)")
	}
	advs := make(map[string]struct{}, len(c.Adversaries))
	regular := false
	for _, a := range c.Adversaries {
		if strings.TrimSpace(a.Key) == "" {
			return fmt.Errorf("adversary %q missing 'key'", a.Name)
		}
		if _, dup := advs[a.Key]; dup {
			return fmt.Errorf("duplicate adversary key '%s'", a.Key)
		}
		switch a.Tier {
		case game.TierRegular:
			regular = true
		case game.TierElite, game.TierBoss:
		default:
			return fmt.Errorf("adversary '%s' has unknown tier '%s'", a.Key, a.Tier)
		}
		if a.MaxHealth <= 0 {
			return fmt.Errorf("adversary '%s' needs positive max_health", a.Key)
		}
		if a.AttackMin < 0 || a.AttackMax < a.AttackMin {
			return fmt.Errorf("adversary '%s' has an invalid attack range %d-%d", a.Key, a.AttackMin, a.AttackMax)
		}
		advs[a.Key] = struct{}{}
	}
	if !regular {
		return fmt.Errorf("adversaries needs at least one regular tier entry")
	}

	seen := make(map[int]struct{}, len(c.Encounters))
	for _, e := range c.Encounters {
		if _, ok := advs[e.AdversaryKey]; !ok {
			return fmt.Errorf("encounter at battle %d references unknown adversary '%s'", e.BattleIndex, e.AdversaryKey)
		}
		if _, dup := seen[e.BattleIndex]; dup {
			return fmt.Errorf("duplicate encounter for battle %d", e.BattleIndex)
		}
		seen[e.BattleIndex] = struct{}{}
	}
	return nil
}

func uniqueIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := strings.TrimSpace(id(i))
		if v == "" {
			return fmt.Errorf("%s entry %d missing 'id'", kind, i)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("duplicate %s id '%s'", kind, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// Character returns the stats for id.
func (c *LoadedConfig) Character(id game.CharacterID) (game.CharacterStats, bool) {
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return game.CharacterStats{}, false
}

// Card returns the card template for id.
func (c *LoadedConfig) Card(id string) (game.Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return game.Card{}, false
}
