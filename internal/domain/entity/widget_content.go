package entity

// Типизированный контент блоков. В базе и в конструкторе хранится как JSON.

type EducationItem struct {
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Year        string `json:"year"`
	Description string `json:"description,omitempty"`
	Certified   bool   `json:"certified,omitempty"`
}

type EducationContent struct {
	Title string          `json:"title"`
	Items []EducationItem `json:"items"`
}

type ProjectItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Year        string   `json:"year"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link,omitempty"`
}

type ProjectsContent struct {
	Title string        `json:"title"`
	Items []ProjectItem `json:"items"`
}

type ServicesContent struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type DescriptionContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type GalleryGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
	IsVideo     bool     `json:"isVideo,omitempty"`
}

type MeetingSchedulerContent struct {
	Mode          string `json:"mode,omitempty"`
	CalendlyURL   string `json:"calendlyUrl,omitempty"`
	SelectedColor int    `json:"selectedColor,omitempty"`
}

type ImageContent struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type Task struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Due         string `json:"due,omitempty"`
	Done        bool   `json:"done"`
}

type TaskProject struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

type TaskManagerContent struct {
	Title    string        `json:"title"`
	Projects []TaskProject `json:"projects"`
}

type StartupLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type StartupToggle struct {
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

type StartupMilestone struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type StartupMember struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
}

type StartupContent struct {
	Title  string `json:"title"`
	Slides struct {
		Identity struct {
			CompanyName string `json:"companyName"`
			Tagline     string `json:"tagline"`
			Stage       string `json:"stage"`
			Ask         string `json:"ask"`
			LogoURL     string `json:"logoUrl,omitempty"`
		} `json:"identity"`
		Problem struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"problem"`
		Solution struct {
			Title       string        `json:"title"`
			Description string        `json:"description"`
			Links       []StartupLink `json:"links"`
		} `json:"solution"`
		Market struct {
			Title          string `json:"title"`
			TargetCustomer string `json:"targetCustomer"`
			MarketSize     string `json:"marketSize"`
			UseCase        string `json:"useCase"`
		} `json:"market"`
		Traction struct {
			Title      string             `json:"title"`
			Milestones []StartupMilestone `json:"milestones"`
			Metrics    string             `json:"metrics"`
		} `json:"traction"`
		Team struct {
			Title   string          `json:"title"`
			Members []StartupMember `json:"members"`
		} `json:"team"`
		CTA struct {
			Title   string          `json:"title"`
			Asks    []StartupToggle `json:"asks"`
			Contact string          `json:"contact"`
		} `json:"cta"`
	} `json:"slides"`
}

func defaultStartupContent() StartupContent {
	var c StartupContent
	c.Title = "Startup Pitch"

	s := &c.Slides
	s.Identity.CompanyName = "Your Startup"
	s.Identity.Tagline = "We're building X for Y"
	s.Identity.Stage = "Seed"
	s.Identity.Ask = "$50K seed funding"
	s.Problem.Title = "Problem"
	s.Problem.Description = "Describe the problem you're solving..."
	s.Solution.Title = "Solution"
	s.Solution.Description = "Describe your solution..."
	s.Solution.Links = []StartupLink{}
	s.Market.Title = "Market"
	s.Market.TargetCustomer = "Your target customers"
	s.Market.MarketSize = "$X billion market"
	s.Market.UseCase = "How customers use your product"
	s.Traction.Title = "Traction"
	s.Traction.Milestones = []StartupMilestone{
		{Text: "Prototype built", Completed: true},
		{Text: "First customers"},
	}
	s.Traction.Metrics = "Key metrics and growth"
	s.Team.Title = "Team"
	s.Team.Members = []StartupMember{{Name: "Your Name", Role: "CEO"}}
	s.CTA.Title = "Call to Action"
	s.CTA.Asks = []StartupToggle{
		{Text: "Funding", Active: true},
		{Text: "Mentorship", Active: true},
		{Text: "Partnerships"},
	}
	s.CTA.Contact = "hello@yourcompany.com"
	return c
}
