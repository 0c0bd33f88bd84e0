package edit

import (
	"errors"
	"fmt"
	"strings"

	"image-studio-server/modules/common/fallback"
	"image-studio-server/modules/options"
	"image-studio-server/modules/prompt"
)

var (
	// ErrMissingOption - 편집 종류에 필요한 옵션 누락
	ErrMissingOption = errors.New("missing option")
	// ErrUnknownEditType - 지원하지 않는 편집 종류
	ErrUnknownEditType = errors.New("unknown edit type")
)

// ParseEditType - 요청 문자열 검증
func ParseEditType(s string) (EditType, error) {
	for _, t := range EditTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEditType, s)
}

// lookup - 표시 이름으로 테이블 조회 (필수)
func lookup(raw map[string]interface{}, key string, table map[string]string) (string, error) {
	name := fallback.SafeString(raw[key], "")
	if name == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingOption)
	}
	fragment, ok := table[name]
	if !ok {
		return "", fmt.Errorf("%s %q: %w", key, name, prompt.ErrUnknownOption)
	}
	return fragment, nil
}

func required(raw map[string]interface{}, key string) (string, error) {
	v := fallback.SafeString(raw[key], "")
	if v == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingOption)
	}
	return v, nil
}

// ResolveOptions - 요청 옵션을 프롬프트에 들어갈 값으로 변환
// 테이블 옵션은 표시 이름으로 받아 프롬프트 조각으로 바꾼다
func ResolveOptions(editType EditType, raw map[string]interface{}) (map[string]interface{}, error) {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	out := map[string]interface{}{}
	var err error

	set := func(key string, v string, e error) {
		if err == nil {
			err = e
			out[key] = v
		}
	}

	switch editType {
	case OutfitChange:
		v, e := lookup(raw, "clothing", options.ClothingOptions)
		set("clothing", v, e)
		additional := ""
		if color := fallback.SafeString(raw["color"], ""); color != "" {
			additional = "in " + color + " color"
		}
		out["additional"] = additional

	case PoseChange:
		v, e := lookup(raw, "pose", options.PoseOptions)
		set("pose", v, e)
		v, e = lookup(raw, "expression", options.FacialExpressions)
		set("expression", v, e)

	case FaceSwap:
		out["preserve_hair"] = fallback.SafeBool(raw["preserve_hair"], true)
		out["skin_match"] = fallback.SafeBool(raw["skin_match"], true)
		out["blend_quality"] = fallback.SafeString(raw["blend_quality"], "natural")
		out["expression"] = fallback.SafeString(raw["expression"], "keep target expression")

	case FaceEnhancement:
		v, e := lookup(raw, "enhancement", options.FaceEnhancements)
		set("enhancement", v, e)
		out["intensity"] = fallback.ClampInt(fallback.SafeInt(raw["intensity"], 5), 5, 1, 10)
		out["natural"] = fallback.SafeBool(raw["natural"], true)

	case BodyModification:
		v, e := lookup(raw, "modification", options.BodyModifications)
		set("modification", v, e)
		out["intensity"] = fallback.ClampInt(fallback.SafeInt(raw["intensity"], 4), 4, 1, 10)
		out["natural"] = fallback.SafeBool(raw["natural"], true)

	case BackgroundChange:
		action := fallback.SafeString(raw["action"], BackgroundReplace)
		switch action {
		case BackgroundReplace:
			v, e := lookup(raw, "background", options.BackgroundOptions)
			set("background", v, e)
		case BackgroundRemove, BackgroundEnhance:
			out["background"] = ""
		default:
			return nil, fmt.Errorf("background action %q: %w", action, prompt.ErrUnknownOption)
		}
		out["action"] = action
		out["lighting_match"] = fallback.SafeBool(raw["lighting_match"], true)

	case ObjectControl:
		action := strings.ToLower(fallback.SafeString(raw["action"], ObjectAdd))
		switch action {
		case ObjectAdd, ObjectRemove:
			v, e := required(raw, "object")
			set("object", v, e)
		case ObjectReplace:
			v, e := required(raw, "old_object")
			set("old_object", v, e)
			v, e = required(raw, "new_object")
			set("new_object", v, e)
		default:
			return nil, fmt.Errorf("object action %q: %w", action, prompt.ErrUnknownOption)
		}
		out["action"] = action

	case CompleteMakeover:
		v, e := lookup(raw, "clothing", options.ClothingOptions)
		set("clothing", v, e)
		v, e = lookup(raw, "pose", options.PoseOptions)
		set("pose", v, e)
		v, e = lookup(raw, "face_enhancement", options.FaceEnhancements)
		set("face_enhancement", v, e)
		v, e = lookup(raw, "expression", options.FacialExpressions)
		set("expression", v, e)

	case StyleTransfer:
		v, e := lookup(raw, "style", options.StylePresets)
		set("style", v, e)

	case CustomEdit:
		out["custom_prompt"] = fallback.SafeString(raw["custom_prompt"], DefaultCustomPrompt)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEditType, editType)
	}

	if err != nil {
		return nil, err
	}
	return out, nil
}
