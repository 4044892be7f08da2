package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Addr returns host:port for HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with built-in defaults so that a
// partial config file still yields a runnable server.
func (c *Config) ApplyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = "pebble"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "./.database"
	}
	if c.Storage.Namespace == "" {
		c.Storage.Namespace = "taoci_"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Security.StreamerPassword == "" {
		c.Security.StreamerPassword = "taoci2024"
	}
	if c.Site.Name == "" {
		c.Site.Name = "桃汽水的魔力补给站"
	}
	if c.Site.Title == "" {
		c.Site.Title = "异世界精灵公主周年庆典"
	}
	if c.Site.VTuber.Name == "" {
		c.Site.VTuber = VTuberConfig{
			Name:        "桃汽水",
			Title:       "精灵公主",
			Catchphrase: "契约者们，准备好收集魔力了吗？",
			Color:       "#FF00FF",
			Birthday:    "12月25日",
		}
	}
	if c.Schedule.LiveStart == "" {
		c.Schedule.SiteLaunch = "2024-12-10"
		c.Schedule.LiveStart = "2024-12-25T19:00:00"
		c.Schedule.EventEnd = "2024-12-31T23:59:59"
	}
	if len(c.Pages) == 0 {
		c.Pages = []PageConfig{
			{Name: "home", Title: "首页", Icon: "fa-home", Enabled: true},
			{Name: "games", Title: "小游戏", Icon: "fa-gamepad", Enabled: true, Description: "三款简单的休闲小游戏"},
			{Name: "answers", Title: "答案之书", Icon: "fa-book", Enabled: true, Description: "向魔法书提问，获取精灵公主的指引"},
			{Name: "lottery", Title: "B站抽奖复刻", Icon: "fa-gift", Enabled: true, Description: "不定期复刻B站趣味抽奖活动"},
			{Name: "messages", Title: "留言板", Icon: "fa-comments", Enabled: true, Description: "给桃汽水公主留言祝福"},
		}
	}
	if c.Board.MaxMessages == 0 {
		c.Board.MaxMessages = 100
	}
	if c.Board.ContentMinLen == 0 {
		c.Board.ContentMinLen = 1
	}
	if c.Board.ContentMaxLen == 0 {
		c.Board.ContentMaxLen = 200
	}
	if c.Board.NicknameMaxLen == 0 {
		c.Board.NicknameMaxLen = 20
	}
	if len(c.Board.AvatarGlyphs) == 0 {
		c.Board.AvatarGlyphs = []string{"✨", "🌙", "🍑", "🥤", "🎀"}
	}
	if len(c.AnswerBook.Answers) == 0 {
		c.AnswerBook.Answers = []string{
			"当然啦，我的契约者！",
			"可能需要一点魔法帮助~",
			"相信自己的直觉！",
			"现在不是最佳时机",
			"大胆尝试吧！",
			"小心调皮的能量波动",
			"答案藏在彩虹尽头",
			"问问你的内心",
			"明天会有转机",
			"保持积极的心态！",
			"需要更多的汽水能量！",
			"跟随星星的指引",
			"魔法正在生效中...",
			"答案正在路上啦~",
		}
	}
	if len(c.AnswerBook.SpecialAnswers) == 0 {
		c.AnswerBook.SpecialAnswers = []string{
			"桃汽水公主亲自为你祝福！✨",
			"获得双倍幸运魔法！",
			"解锁隐藏彩蛋！🎉",
			"你被选中为今天的幸运契约者！",
		}
	}
	if c.AnswerBook.SpecialChance == 0 {
		c.AnswerBook.SpecialChance = 0.05
	}
	if c.Housekeeping.Cron == "" {
		c.Housekeeping.Cron = "0 4 * * *"
	}
}

// PageEnabled reports whether a page with the given name is registered and enabled.
func (c *Config) PageEnabled(name string) bool {
	for _, p := range c.Pages {
		if p.Name == name {
			return p.Enabled
		}
	}
	return false
}
