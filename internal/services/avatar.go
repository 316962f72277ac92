package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	types "github.com/coachprep/coachprep-backend/internal/domain/user"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

// AvatarService renders the initials avatar stored on the user row at
// registration time.
type AvatarService interface {
	Generate(ctx context.Context, user *types.User) ([]byte, error)
}

type avatarService struct {
	log      *logger.Logger
	bgColors []color.NRGBA
	fontFace font.Face
}

// NewAvatarService loads the TTF named by AVATAR_FONT. A missing font is not
// fatal: avatars are rendered as a plain colored disc and a warning is logged
// once here.
func NewAvatarService(log *logger.Logger) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	var face font.Face
	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		serviceLog.Warn("AVATAR_FONT not set, avatars will be rendered without initials")
	} else {
		loaded, err := loadFontFace(fontPath, 206)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar font: %w", err)
		}
		serviceLog.Info("Loaded avatar font", "font", fontPath)
		face = loaded
	}

	return &avatarService{
		log: serviceLog,
		bgColors: []color.NRGBA{
			{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF},
			{R: 0x00, G: 0x69, B: 0x7B, A: 0xFF},
			{R: 0x45, G: 0x27, B: 0xA0, A: 0xFF},
			{R: 0xAD, G: 0x14, B: 0x57, A: 0xFF},
			{R: 0xE5, G: 0x6F, B: 0x00, A: 0xFF},
			{R: 0x28, G: 0x35, B: 0x93, A: 0xFF},
		},
		fontFace: face,
	}, nil
}

func (as *avatarService) Generate(ctx context.Context, user *types.User) ([]byte, error) {
	if user == nil {
		return nil, fmt.Errorf("user required")
	}
	const size = 512

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(user))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	if as.fontFace != nil {
		initials := computeInitials(user.FirstName, user.LastName)
		dc.SetFontFace(as.fontFace)
		tw, th := dc.MeasureString(initials)
		cx, cy := float64(size)/2, float64(size)/2
		dc.SetColor(color.White)
		dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// pickColor is deterministic per user so regenerating an avatar keeps its
// background.
func (as *avatarService) pickColor(user *types.User) color.NRGBA {
	h := fnv.New32a()
	h.Write(user.ID[:])
	return as.bgColors[int(h.Sum32())%len(as.bgColors)]
}

func computeInitials(first, last string) string {
	return initialOf(first) + initialOf(last)
}

// initialOf takes the first rune, not the first byte, so multi-byte names
// ("Élodie") keep a valid initial.
func initialOf(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
