package render

// Profile is the environment-dependent engine tuning applied to every
// render job.
type Profile struct {
	Concurrency   int
	GL            string
	ChromiumFlags []string
	Codec         string
	JPEGQuality   int
	VideoBitrate  string
	EveryNthFrame int
}

// ProductionProfile is tuned for headless servers without a GPU: low
// concurrency, software GL, and the sandbox disabled for container use.
func ProductionProfile() Profile {
	return Profile{
		Concurrency: 2,
		GL:          "swiftshader",
		ChromiumFlags: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-gpu",
			"--disable-dev-shm-usage",
			"--disable-web-security",
		},
		Codec:         "h264",
		JPEGQuality:   80,
		VideoBitrate:  "5M",
		EveryNthFrame: 1,
	}
}

// DevelopmentProfile is tuned for workstations with a GPU: high
// concurrency and hardware-accelerated GL.
func DevelopmentProfile() Profile {
	return Profile{
		Concurrency:   8,
		GL:            "angle",
		Codec:         "h264",
		JPEGQuality:   80,
		VideoBitrate:  "5M",
		EveryNthFrame: 1,
	}
}

// ProfileFor selects the profile for the configured environment.
func ProfileFor(production bool) Profile {
	if production {
		return ProductionProfile()
	}
	return DevelopmentProfile()
}
