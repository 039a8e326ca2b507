package workspace

import "github.com/wagneradl/opsdesk/internal/models"

// DefaultSeed returns the sample agency used to populate an empty store.
// today is the date given to the sprint review.
func DefaultSeed(today string) models.Snapshot {
	return models.Snapshot{
		Team:     seedTeam(),
		Projects: seedProjects(),
		Tasks: []models.Task{
			{ID: "1", ProjectID: "p1", Title: "Implement JWT auth", Status: models.TaskInProgress, Priority: models.PriorityHigh, Area: "backend", Assignee: "t1"},
			{ID: "2", ProjectID: "p1", Title: "Polish dark mode", Status: models.TaskBacklog, Priority: models.PriorityMedium, Area: "design", Assignee: "t2"},
			{ID: "3", ProjectID: "p2", Title: "Set up Terraform", Status: models.TaskInProgress, Priority: models.PriorityHigh, Area: "devops", Assignee: "t3"},
		},
		Meetings: []models.Meeting{
			{ID: "m1", Title: "Sprint Review", Time: "14:00", Date: today, Type: models.MeetingClient},
			{ID: "m2", Title: "Daily", Time: "09:00", Date: "2023-10-26", Type: models.MeetingInternal},
		},
		Tools: seedTools(),
	}
}

func seedTeam() []models.TeamMember {
	return []models.TeamMember{
		{
			ID: "t1", Name: "Lucas Silva", Role: "Senior Full Stack", Status: "online",
			Avatar: "https://picsum.photos/seed/lucas/100",
			Skills: []string{"React", "Node.js", "PostgreSQL", "AWS"}, Experience: "7 years",
			Bio:      "Microservice architecture and technical leadership.",
			Workload: 85, Schedule: "08:00 - 17:00",
		},
		{
			ID: "t2", Name: "Aria Mendes", Role: "Lead UI/UX Designer", Status: "busy",
			Avatar: "https://picsum.photos/seed/aria/100",
			Skills: []string{"Figma", "CSS Animations", "Design Systems"}, Experience: "5 years",
			Bio:      "Accessibility and scalable design systems.",
			Workload: 60, Schedule: "10:00 - 19:00",
		},
		{
			ID: "t3", Name: "Ricardo O.", Role: "DevOps Engineer", Status: "offline",
			Avatar: "https://picsum.photos/seed/ricardo/100",
			Skills: []string{"Docker", "Kubernetes", "CI/CD", "Terraform"}, Experience: "4 years",
			Bio:      "Infrastructure automation and cloud cost tuning.",
			Workload: 20, Schedule: "09:00 - 18:00",
		},
	}
}

func seedProjects() []models.Project {
	return []models.Project{
		{
			ID: "p1", Name: "Corporate Dashboard V2", Client: "Internal",
			Description: "Main admin panel with AI integration.",
			Status:      models.ProjectDevelopment, Category: models.CategoryDevelopment,
			StartDate: "2023-10-01", Deadline: "2023-12-15", Progress: 65,
			TeamIDs: []string{"t1", "t2"}, TechStack: []string{"React", "Gemini"},
			Roadmap: []models.RoadmapStep{
				{Step: "Requirements", Status: "done", Date: "01/10"},
				{Step: "UI prototype", Status: "done", Date: "15/10"},
				{Step: "Backend integration", Status: "current", Date: "Now"},
				{Step: "QA & testing", Status: "pending"},
			},
		},
		{
			ID: "p2", Name: "Sneakers E-commerce", Client: "Shopify Clone",
			Description: "Mobile-first marketplace for luxury sneakers.",
			Status:      models.ProjectPlanning, Category: models.CategoryDevelopment,
			StartDate: "2023-11-01", Deadline: "2024-03-01", Progress: 10,
			TeamIDs: []string{"t1", "t3"},
			Roadmap: []models.RoadmapStep{
				{Step: "Kick-off", Status: "done", Date: "01/11"},
				{Step: "AWS setup", Status: "current", Date: "Now"},
				{Step: "MVP development", Status: "pending"},
			},
		},
		{
			ID: "p3", Name: "Mobile Finance App", Client: "FinTech X",
			Description: "Legacy app maintenance and hotfixes.",
			Status:      models.ProjectProduction, Category: models.CategoryProduction,
			StartDate: "2023-01-01", Deadline: "Continuous", Progress: 100,
			TeamIDs: []string{"t1"},
			Roadmap: []models.RoadmapStep{
				{Step: "v1.0 launch", Status: "done"},
				{Step: "Monitoring", Status: "current"},
				{Step: "Security patch", Status: "pending"},
			},
		},
	}
}

func seedTools() []models.MarketTool {
	const now = "Deep Search: Now"
	return []models.MarketTool{
		{
			ID: "llm1", Name: "Gemini 3.0 Pro", Category: models.MarketAPIAI, Price: 2.50, Currency: "USD",
			Unit: "per_1k_tokens", Trend: models.TrendStable, LastUpdated: now, Provider: "Google",
			Description: "Advanced reasoning model with a very large context window and native agent capabilities.",
			DocsURL:     "https://ai.google.dev/",
			Specs:       &models.ToolSpecs{ContextWindow: "5M+", MaxOutput: "16k", Modalities: []string{"Text", "Audio", "Video", "Code"}, ReleaseDate: "Preview 2025"},
			Variants: []models.ToolVariant{
				{Name: "Input Tokens", Price: 2.50, Unit: "/1M tokens"},
				{Name: "Output Tokens", Price: 7.50, Unit: "/1M tokens"},
				{Name: "Context Caching", Price: 0.25, Unit: "/1M tokens/hour"},
			},
		},
		{
			ID: "llm2", Name: "Gemini 3.0 Flash", Category: models.MarketAPIAI, Price: 0.15, Currency: "USD",
			Unit: "per_1k_tokens", Trend: models.TrendDown, LastUpdated: now, Provider: "Google",
			Description: "Tuned for very high speed and low cost. Suited to high-volume work and real-time video analysis.",
			DocsURL:     "https://ai.google.dev/",
			Specs:       &models.ToolSpecs{ContextWindow: "2M", MaxOutput: "8k", Latency: "Ultra Low", ReleaseDate: "Preview 2025"},
			Variants: []models.ToolVariant{
				{Name: "Input Tokens", Price: 0.15, Unit: "/1M tokens"},
				{Name: "Output Tokens", Price: 0.45, Unit: "/1M tokens"},
				{Name: "Cached Input", Price: 0.015, Unit: "/1M tokens"},
			},
		},
		{
			ID: "llm3", Name: "GPT-5 Preview (o2)", Category: models.MarketAPIAI, Price: 5.00, Currency: "USD",
			Unit: "per_1k_tokens", Trend: models.TrendUp, LastUpdated: "Deep Search: 4h ago", Provider: "OpenAI",
			Description: "Deep reasoning model with self-correction and multi-step planning.",
			Specs:       &models.ToolSpecs{ContextWindow: "500k", MaxOutput: "32k", Modalities: []string{"Text", "Image"}},
			Variants: []models.ToolVariant{
				{Name: "Input (Thinking)", Price: 5.00, Unit: "/1M tokens"},
				{Name: "Output", Price: 15.00, Unit: "/1M tokens"},
			},
		},
		{
			ID: "llm5", Name: "Claude 3.7 Opus", Category: models.MarketAPIAI, Price: 15.00, Currency: "USD",
			Unit: "per_1k_tokens", Trend: models.TrendStable, LastUpdated: "Yesterday", Provider: "Anthropic",
			Description: "Strong at creative writing and nuanced instructions.",
			Specs:       &models.ToolSpecs{ContextWindow: "200k", MaxOutput: "4k"},
			Variants: []models.ToolVariant{
				{Name: "Input", Price: 15.00, Unit: "/1M tokens"},
				{Name: "Output", Price: 75.00, Unit: "/1M tokens"},
			},
		},
		{
			ID: "llm6", Name: "Azure OpenAI GPT-4o", Category: models.MarketAPIAI, Price: 2.50, Currency: "USD",
			Unit: "per_1k_tokens", Trend: models.TrendStable, LastUpdated: now, Provider: "Microsoft Azure",
			Description: "Enterprise GPT-4o deployment with VNET isolation and regional content filters.",
			Specs:       &models.ToolSpecs{ContextWindow: "128k", MaxOutput: "4k", Modalities: []string{"Text", "Image"}},
			Variants: []models.ToolVariant{
				{Name: "Standard S0", Price: 2.50, Unit: "/1M input"},
				{Name: "Provisioned", Price: 0.00, Unit: "Custom (PTU)"},
			},
		},
		{
			ID: "llm7", Name: "Mistral Large 2", Category: models.MarketAPIAI, Price: 2.00, Currency: "USD",
			Unit: "per_1k_tokens", Trend: models.TrendDown, LastUpdated: now, Provider: "Mistral AI",
			Description: "European frontier model, strong at code and multilingual work.",
			Specs:       &models.ToolSpecs{ContextWindow: "128k", MaxOutput: "8k"},
			Variants: []models.ToolVariant{
				{Name: "Input", Price: 2.00, Unit: "/1M tokens"},
				{Name: "Output", Price: 6.00, Unit: "/1M tokens"},
			},
		},
		{
			ID: "dep1", Name: "Vercel Pro", Category: models.MarketDeploy, Price: 20.00, Currency: "USD",
			Unit: "per_seat/mo", Trend: models.TrendStable, LastUpdated: now, Provider: "Vercel",
			Description: "Frontend cloud tuned for Next.js with edge functions and analytics.",
			Specs:       &models.ToolSpecs{Latency: "Global Edge", Modalities: []string{"Next.js", "React", "Svelte"}},
			Variants: []models.ToolVariant{
				{Name: "Pro Seat", Price: 20.00, Unit: "/mo"},
				{Name: "Bandwidth", Price: 40.00, Unit: "/100GB extra"},
				{Name: "Serverless Function", Price: 0.60, Unit: "/GB-hour"},
			},
		},
		{
			ID: "dep2", Name: "Cloudflare Workers", Category: models.MarketDeploy, Price: 5.00, Currency: "USD",
			Unit: "monthly", Trend: models.TrendDown, LastUpdated: now, Provider: "Cloudflare",
			Description: "Edge serverless compute with no cold start, KV store and Durable Objects.",
			Specs:       &models.ToolSpecs{Latency: "<10ms (Global)", Modalities: []string{"JS", "Rust", "Wasm"}},
			Variants: []models.ToolVariant{
				{Name: "Workers Paid", Price: 5.00, Unit: "/mo (10M requests)"},
				{Name: "Requests", Price: 0.30, Unit: "/1M requests extra"},
				{Name: "Duration", Price: 0.02, Unit: "/1M GB-sec"},
			},
		},
		{
			ID: "dep3", Name: "Railway", Category: models.MarketDeploy, Price: 5.00, Currency: "USD",
			Unit: "monthly (base)", Trend: models.TrendUp, LastUpdated: now, Provider: "Railway",
			Description: "Simple PaaS that deploys from a GitHub repo with native Dockerfile support.",
			Specs:       &models.ToolSpecs{Latency: "US-West/East", Modalities: []string{"Docker", "Node", "Python"}},
			Variants: []models.ToolVariant{
				{Name: "Pro Plan", Price: 5.00, Unit: "/mo subscription"},
				{Name: "RAM Usage", Price: 10.00, Unit: "/GB/mo"},
				{Name: "CPU Usage", Price: 20.00, Unit: "/vCPU/mo"},
			},
		},
		{
			ID: "dep4", Name: "Render", Category: models.MarketDeploy, Price: 19.00, Currency: "USD",
			Unit: "monthly", Trend: models.TrendStable, LastUpdated: now, Provider: "Render",
			Description: "Unified cloud with persistent SSD disks and private networking.",
			Variants: []models.ToolVariant{
				{Name: "Team Plan", Price: 19.00, Unit: "/user/mo"},
				{Name: "Compute Starter", Price: 7.00, Unit: "/mo"},
			},
		},
		{
			ID: "db1", Name: "Supabase", Category: models.MarketCloudInfra, Price: 25.00, Currency: "USD",
			Unit: "monthly", Trend: models.TrendStable, LastUpdated: now, Provider: "Supabase Inc.",
			Description: "Open source Firebase alternative: Postgres with realtime, auth and edge functions.",
			Specs:       &models.ToolSpecs{Latency: "Global Edge", ReleaseDate: "Stable", Modalities: []string{"Postgres", "Auth", "Storage"}},
			Variants: []models.ToolVariant{
				{Name: "Pro Plan", Price: 25.00, Unit: "/project/mo"},
				{Name: "Database Size", Price: 0.125, Unit: "/GB over limit"},
			},
		},
		{
			ID: "db3", Name: "Neon", Category: models.MarketCloudInfra, Price: 0.00, Currency: "USD",
			Unit: "usage_based", Trend: models.TrendDown, LastUpdated: now, Provider: "Neon",
			Description: "Serverless Postgres with separate compute and storage and instant branching.",
			Specs:       &models.ToolSpecs{Latency: "Cold Start <300ms", Modalities: []string{"Serverless Postgres"}},
			Variants: []models.ToolVariant{
				{Name: "Compute", Price: 0.16, Unit: "/compute-hour"},
				{Name: "Storage", Price: 0.00, Unit: "Free Tier Available"},
			},
		},
		{
			ID: "vid3", Name: "Sora", Category: models.MarketVideoGen, Price: 0.00, Currency: "USD",
			Unit: "Invite Only", Trend: models.TrendStable, LastUpdated: now, Provider: "OpenAI",
			Description: "Video diffusion model, currently red-teamed with restricted access.",
			Specs:       &models.ToolSpecs{MaxOutput: "60s", Modalities: []string{"Text-to-Video", "Looping"}, ReleaseDate: "Red Teaming"},
			Variants:    []models.ToolVariant{{Name: "Red Teaming Access", Price: 0.00, Unit: "Invite Only"}},
		},
		{
			ID: "vid1", Name: "Runway Gen-3 Alpha", Category: models.MarketVideoGen, Price: 0.50, Currency: "USD",
			Unit: "per_second", Trend: models.TrendUp, LastUpdated: "Deep Search: 1h ago", Provider: "RunwayML",
			Description: "State of the art temporal control and realism.",
			Specs:       &models.ToolSpecs{MaxOutput: "10s", Modalities: []string{"Text-to-Video", "Image-to-Video"}},
			Variants: []models.ToolVariant{
				{Name: "Gen-3 Turbo", Price: 0.25, Unit: "/second"},
				{Name: "Gen-3 Alpha", Price: 0.50, Unit: "/second"},
			},
		},
	}
}
