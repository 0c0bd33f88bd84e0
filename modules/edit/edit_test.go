package edit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"image-studio-server/modules/common/gemini/geminitest"
	"image-studio-server/modules/common/model"
	"image-studio-server/modules/common/utils"
	"image-studio-server/modules/history"
	"image-studio-server/modules/options"
	"image-studio-server/modules/prompt"
	"image-studio-server/modules/session"
)

func TestParseEditType(t *testing.T) {
	for _, et := range EditTypes {
		if got, err := ParseEditType(string(et)); err != nil || got != et {
			t.Fatalf("ParseEditType(%q) = %q, %v", et, got, err)
		}
	}
	if _, err := ParseEditType("teleport"); !errors.Is(err, ErrUnknownEditType) {
		t.Fatalf("err = %v, want ErrUnknownEditType", err)
	}
}

func TestResolveOptions(t *testing.T) {
	tests := []struct {
		name     string
		editType EditType
		raw      map[string]interface{}
		want     map[string]interface{}
		wantErr  error
	}{
		{
			name:     "outfit with color",
			editType: OutfitChange,
			raw:      map[string]interface{}{"clothing": "Casual Wear", "color": "navy"},
			want:     map[string]interface{}{"clothing": options.ClothingOptions["Casual Wear"], "additional": "in navy color"},
		},
		{
			name:     "outfit missing clothing",
			editType: OutfitChange,
			raw:      map[string]interface{}{},
			wantErr:  ErrMissingOption,
		},
		{
			name:     "pose unknown expression",
			editType: PoseChange,
			raw:      map[string]interface{}{"pose": "Arms Crossed", "expression": "Grumpy"},
			wantErr:  prompt.ErrUnknownOption,
		},
		{
			name:     "face swap defaults",
			editType: FaceSwap,
			raw:      nil,
			want: map[string]interface{}{
				"preserve_hair": true, "skin_match": true,
				"blend_quality": "natural", "expression": "keep target expression",
			},
		},
		{
			name:     "face enhancement clamps intensity",
			editType: FaceEnhancement,
			raw:      map[string]interface{}{"enhancement": "Eye Enhancement", "intensity": float64(42), "natural": false},
			want:     map[string]interface{}{"enhancement": options.FaceEnhancements["Eye Enhancement"], "intensity": 10, "natural": false},
		},
		{
			name:     "body modification default intensity",
			editType: BodyModification,
			raw:      map[string]interface{}{"modification": "Clothing Fit"},
			want:     map[string]interface{}{"modification": options.BodyModifications["Clothing Fit"], "intensity": 4, "natural": true},
		},
		{
			name:     "remove background needs no table entry",
			editType: BackgroundChange,
			raw:      map[string]interface{}{"action": BackgroundRemove},
			want:     map[string]interface{}{"action": BackgroundRemove, "background": "", "lighting_match": true},
		},
		{
			name:     "replace background requires background",
			editType: BackgroundChange,
			raw:      map[string]interface{}{},
			wantErr:  ErrMissingOption,
		},
		{
			name:     "object replace",
			editType: ObjectControl,
			raw:      map[string]interface{}{"action": "Replace", "old_object": "mug", "new_object": "vase"},
			want:     map[string]interface{}{"action": "replace", "old_object": "mug", "new_object": "vase"},
		},
		{
			name:     "object unknown action",
			editType: ObjectControl,
			raw:      map[string]interface{}{"action": "shrink", "object": "mug"},
			wantErr:  prompt.ErrUnknownOption,
		},
		{
			name:     "makeover requires every part",
			editType: CompleteMakeover,
			raw:      map[string]interface{}{"clothing": "Sportswear", "pose": "Victory Pose"},
			wantErr:  ErrMissingOption,
		},
		{
			name:     "style transfer",
			editType: StyleTransfer,
			raw:      map[string]interface{}{"style": "Anime"},
			want:     map[string]interface{}{"style": options.StylePresets["Anime"]},
		},
		{
			name:     "custom default prompt",
			editType: CustomEdit,
			raw:      map[string]interface{}{"custom_prompt": "  "},
			want:     map[string]interface{}{"custom_prompt": DefaultCustomPrompt},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOptions(tt.editType, tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		editType EditType
		opts     map[string]interface{}
		want     string
	}{
		{OutfitChange, map[string]interface{}{"clothing": "a red dress", "additional": ""},
			"Change the person's clothing to a red dress, keep same person, face, pose and background."},
		{PoseChange, map[string]interface{}{"pose": "sitting", "expression": "calm"},
			"Modify the person's pose to sitting with calm facial expression. Keep same person, clothing, and background."},
		{BackgroundChange, map[string]interface{}{"action": BackgroundReplace, "background": "a beach"},
			"Change the background to a beach. Keep the person(s) exactly the same with proper lighting and shadows."},
		{ObjectControl, map[string]interface{}{"action": ObjectRemove, "object": "the lamp"},
			"Remove the lamp from the image. Fill the space naturally with appropriate background."},
		{ObjectControl, map[string]interface{}{"action": ObjectReplace, "old_object": "mug", "new_object": "vase"},
			"Replace mug with vase naturally in the scene."},
		{StyleTransfer, map[string]interface{}{"style": "anime style"},
			"Transform this image to anime style style while maintaining all subjects and composition."},
		{CustomEdit, map[string]interface{}{"custom_prompt": "make it snow"}, "make it snow"},
		{CustomEdit, map[string]interface{}{}, DefaultCustomPrompt},
		{FaceEnhancement, map[string]interface{}{"enhancement": "bright eyes", "intensity": 7, "natural": true},
			"Enhance the person's face: bright eyes. Keep everything else exactly the same. Make it look natural and professional. Intensity: 7/10. Keep a natural appearance."},
	}

	for _, tt := range tests {
		if got := BuildPrompt(tt.editType, tt.opts); got != tt.want {
			t.Errorf("BuildPrompt(%s) =\n%q\nwant\n%q", tt.editType, got, tt.want)
		}
	}
}

func TestBuildFaceSwapPrompt(t *testing.T) {
	p := BuildFaceSwapPrompt(map[string]interface{}{
		"preserve_hair": false, "skin_match": false, "blend_quality": "natural", "expression": "smile",
	})
	for _, want := range []string{"Blend mode: natural", "Skin tone matching: off", "Hair preservation: false", "Expression: smile"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSwapFaceSendsSourceThenTarget(t *testing.T) {
	fake := &geminitest.Generator{Response: geminitest.ImageResponse([]byte("swapped"), "image/png")}
	svc := NewService(fake, "image-model")

	res, err := svc.SwapFace(context.Background(), []byte("source"), []byte("target"), map[string]interface{}{})
	if err != nil || string(res.Image.Data) != "swapped" {
		t.Fatalf("res = %+v err = %v", res, err)
	}

	parts := fake.Calls()[0].Contents[0].Parts
	if len(parts) != 3 || parts[0].Text == "" || string(parts[1].InlineData.Data) != "source" || string(parts[2].InlineData.Data) != "target" {
		t.Fatalf("parts out of order: %+v", parts)
	}
}

func TestEditNoImage(t *testing.T) {
	fake := &geminitest.Generator{Response: geminitest.TextResponse("sorry")}
	res, err := NewService(fake, "m").Edit(context.Background(), CustomEdit, []byte("img"), map[string]interface{}{})
	if err != nil || len(res.Image.Data) != 0 || res.Message != "No edited image generated" {
		t.Fatalf("res = %+v err = %v", res, err)
	}
}

func newRouter(fake *geminitest.Generator) (*mux.Router, *session.Manager) {
	sessions := session.NewManager(20, time.Hour, time.Hour)
	r := mux.NewRouter()
	NewHandler(NewService(fake, "image-model"), sessions, nil).RegisterRoutes(r)
	return r, sessions
}

func postEdit(t *testing.T, r http.Handler, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/edit", bytes.NewReader(raw)))
	return rec
}

var targetImage = utils.ConvertImageToBase64([]byte("\x89PNG\r\n\x1a\ntarget"))

func TestHandleEditRecordsHistory(t *testing.T) {
	fake := &geminitest.Generator{Response: geminitest.ImageResponse([]byte("edited"), "image/png")}
	r, sessions := newRouter(fake)

	rec := postEdit(t, r, map[string]interface{}{
		"sessionId": "s1",
		"editType":  "outfit_change",
		"image":     "data:image/png;base64," + targetImage,
		"options":   map[string]interface{}{"clothing": "Business Formal"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	var resp EditResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Success || resp.Image == nil || resp.Image.Base64 != utils.ConvertImageToBase64([]byte("edited")) {
		t.Fatalf("resp = %+v", resp)
	}

	if got := fake.Calls()[0].Contents[0].Parts[1].InlineData.MIMEType; got != "image/png" {
		t.Fatalf("uploaded mime = %q", got)
	}

	sess, _ := sessions.Get("s1")
	entries := sess.History().List(history.ChannelEdit)
	if len(entries) != 1 {
		t.Fatalf("edit entries = %d", len(entries))
	}
	p := entries[0].Payload
	if p["edit_type"] != "outfit_change" || p["success"] != true || p["timestamp"] == "" {
		t.Fatalf("payload = %v", p)
	}
	if opts, ok := p["options"].(map[string]interface{}); !ok || opts["clothing"] != options.ClothingOptions["Business Formal"] {
		t.Fatalf("options = %v", p["options"])
	}
}

func TestHandleEditFaceSwapRequiresSource(t *testing.T) {
	r, _ := newRouter(&geminitest.Generator{})

	rec := postEdit(t, r, map[string]interface{}{"sessionId": "s1", "editType": "face_swap", "image": targetImage})
	var resp model.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if rec.Code != http.StatusBadRequest || resp.ErrorCode != model.ErrCodeInvalidRequest {
		t.Fatalf("status = %d resp = %+v", rec.Code, resp)
	}
}

func TestHandleEditErrors(t *testing.T) {
	r, _ := newRouter(&geminitest.Generator{})

	tests := []struct {
		name string
		body map[string]interface{}
		code string
	}{
		{"unknown edit type", map[string]interface{}{"sessionId": "s", "editType": "x", "image": targetImage}, model.ErrCodeInvalidRequest},
		{"missing image", map[string]interface{}{"sessionId": "s", "editType": "custom_edit"}, model.ErrCodeInvalidRequest},
		{"unknown option", map[string]interface{}{"sessionId": "s", "editType": "style_transfer", "image": targetImage,
			"options": map[string]interface{}{"style": "Cubism"}}, model.ErrCodeUnknownOption},
		{"missing option", map[string]interface{}{"sessionId": "s", "editType": "pose_change", "image": targetImage}, model.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEdit(t, r, tt.body)
			var resp model.ErrorResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if rec.Code != http.StatusBadRequest || resp.ErrorCode != tt.code {
				t.Fatalf("status = %d resp = %+v", rec.Code, resp)
			}
		})
	}
}

func TestHandleEditFailureIsNotRecorded(t *testing.T) {
	r, sessions := newRouter(&geminitest.Generator{Err: errors.New("boom")})

	rec := postEdit(t, r, map[string]interface{}{"sessionId": "s1", "editType": "custom_edit", "image": targetImage})
	var resp EditResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Success || !strings.HasPrefix(resp.ErrorMessage, "Editing error") {
		t.Fatalf("resp = %+v", resp)
	}

	sess, _ := sessions.Get("s1")
	if sess.History().Count(history.ChannelEdit) != 0 {
		t.Fatal("failed edit must not be recorded")
	}
}
