package themes

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeStore struct {
	themes []Theme
}

func (f *fakeStore) List(_ context.Context) ([]Theme, error) {
	return f.themes, nil
}

func (f *fakeStore) Insert(_ context.Context, theme Theme) (Theme, error) {
	theme.ID = uuid.New()
	f.themes = append(f.themes, theme)
	return theme, nil
}

func validInput() CreateInput {
	return CreateInput{
		Name:            "Golden Meadow",
		PrimaryColor:    "#d4a017",
		SecondaryColor:  "#fff8e7",
		AccentColor:     "#8a6d1a",
		BackgroundColor: "#fdfaf2",
		HeadingFont:     "Playfair Display",
		BodyFont:        "Lato",
	}
}

func TestCreateTheme(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	theme, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if theme.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
	if len(store.themes) != 1 {
		t.Fatalf("expected 1 stored theme, got %d", len(store.themes))
	}
}

func TestCreateThemeValidation(t *testing.T) {
	svc := NewService(&fakeStore{})

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"short name", func(in *CreateInput) { in.Name = "ab" }},
		{"bad primary color", func(in *CreateInput) { in.PrimaryColor = "d4a017" }},
		{"bad secondary color", func(in *CreateInput) { in.SecondaryColor = "#12345" }},
		{"bad accent color", func(in *CreateInput) { in.AccentColor = "#xyzxyz" }},
		{"bad background color", func(in *CreateInput) { in.BackgroundColor = "" }},
		{"short heading font", func(in *CreateInput) { in.HeadingFont = "x" }},
		{"short body font", func(in *CreateInput) { in.BodyFont = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateThemeAcceptsShortHex(t *testing.T) {
	svc := NewService(&fakeStore{})

	in := validInput()
	in.PrimaryColor = "#fff"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("create with 3-digit hex: %v", err)
	}
}
