package store

import "github.com/example/shindora/internal/i18n"

// DefaultSettings is what GetSettings serves until an admin customizes the
// site.
func DefaultSettings() Settings {
	return Settings{
		SiteName:       "Shindora",
		PrimaryColor:   "#e11d48",
		SecondaryColor: "#18181b",
		Ad: AdSlot{
			Enabled: false,
			Title:   i18n.New("Iklan", "Advertisement"),
		},
	}
}

// DefaultPages are the static pages every deployment starts with.
func DefaultPages() []Page {
	return []Page{
		{
			Name:    "about",
			Title:   i18n.New("Tentang Kami", "About Us"),
			Content: i18n.New("Selamat datang di Shindora.", "Welcome to Shindora."),
		},
		{
			Name:    "disclaimer",
			Title:   i18n.New("Penafian", "Disclaimer"),
			Content: i18n.New("Semua video disematkan dari sumber pihak ketiga.", "All videos are embedded from third-party sources."),
		},
		{
			Name:    "privacy",
			Title:   i18n.New("Kebijakan Privasi", "Privacy Policy"),
			Content: i18n.New("Kami tidak membagikan data pribadi Anda.", "We do not share your personal data."),
		},
		{
			Name:    "terms",
			Title:   i18n.New("Syarat dan Ketentuan", "Terms of Service"),
			Content: i18n.New("Dengan menggunakan situs ini Anda menyetujui ketentuan berikut.", "By using this site you agree to the following terms."),
		},
	}
}
