package codegen

import (
	"encoding/json"

	"goboscript/internal/project"
)

const twconfigHeader = "Configuration for https://turbowarp.org/\n" +
	"You can move, resize, and minimize this comment, but don't edit it by hand. " +
	"This comment can be deleted to remove the stored settings.\n"

type twRuntimeOptions struct {
	MaxClones  *int  `json:"maxClones,omitempty"`
	MiscLimits *bool `json:"miscLimits,omitempty"`
	Fencing    *bool `json:"fencing,omitempty"`
}

type twSettings struct {
	Framerate      *int              `json:"framerate,omitempty"`
	RuntimeOptions *twRuntimeOptions `json:"runtimeOptions,omitempty"`
	Interpolation  *bool             `json:"interpolation,omitempty"`
	HQ             *bool             `json:"hq,omitempty"`
	Width          *int              `json:"width,omitempty"`
	Height         *int              `json:"height,omitempty"`
}

// twconfig renders the stage comment TurboWarp reads its runtime settings
// from. Only options that differ from the defaults are written; ok is false
// when nothing differs.
func twconfig(cfg project.Config) (string, bool) {
	if cfg.IsDefault() {
		return "", false
	}
	def := project.DefaultConfig()
	var s twSettings
	var rt twRuntimeOptions
	if cfg.FrameRate != def.FrameRate {
		s.Framerate = ptr(cfg.FrameRate)
	}
	if cfg.MaxClones != def.MaxClones {
		rt.MaxClones = ptr(cfg.MaxClones)
	}
	if cfg.NoMiscellaneousLimits {
		rt.MiscLimits = ptr(false)
	}
	if cfg.NoFencing {
		rt.Fencing = ptr(false)
	}
	if rt != (twRuntimeOptions{}) {
		s.RuntimeOptions = &rt
	}
	if cfg.FrameInterpolation {
		s.Interpolation = ptr(true)
	}
	if cfg.HighQualityPen {
		s.HQ = ptr(true)
	}
	if cfg.StageWidth != def.StageWidth {
		s.Width = ptr(cfg.StageWidth)
	}
	if cfg.StageHeight != def.StageHeight {
		s.Height = ptr(cfg.StageHeight)
	}
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return twconfigHeader + string(data) + " // _twconfig_", true
}

func ptr[T any](v T) *T { return &v }
