// Package content holds the static portfolio data: profile, education,
// skills, projects and certifications.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultContent []byte

// ErrInvalid is returned when content fails validation.
var ErrInvalid = errors.New("invalid content")

// Site is one immutable snapshot of everything the page renders.
type Site struct {
	Metadata       Metadata        `yaml:"metadata"`
	Profile        Profile         `yaml:"profile"`
	Nav            []NavLink       `yaml:"nav"`
	Education      []Education     `yaml:"education"`
	Skills         []SkillGroup    `yaml:"skills"`
	Projects       []Project       `yaml:"projects"`
	Certifications []Certification `yaml:"certifications"`
}

// Metadata is the document title and description.
type Metadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Profile describes the site owner.
type Profile struct {
	Name      string   `yaml:"name"`
	Headline  string   `yaml:"headline"`
	Summary   string   `yaml:"summary"`
	About     []string `yaml:"about"`
	Portrait  string   `yaml:"portrait"`
	ResumeURL string   `yaml:"resume_url"`
	Email     string   `yaml:"email"`
	Pitch     string   `yaml:"pitch"`
	Location  string   `yaml:"location"`
	Socials   []Social `yaml:"socials"`
}

// Social is a footer link to an external profile.
type Social struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon"`
}

// NavLink is a header anchor.
type NavLink struct {
	Label  string `yaml:"label"`
	Anchor string `yaml:"anchor"`
}

// Education is one entry of the education history.
type Education struct {
	Period      string `yaml:"period"`
	Degree      string `yaml:"degree"`
	Field       string `yaml:"field"`
	Institution string `yaml:"institution"`
	Score       string `yaml:"score"`
	Icon        string `yaml:"icon"`
}

// SkillGroup is a titled list of skills.
type SkillGroup struct {
	Category string   `yaml:"category"`
	Skills   []string `yaml:"skills"`
}

// Project is a gallery entry. Identity is the slug.
type Project struct {
	Slug            string   `yaml:"slug"`
	Title           string   `yaml:"title"`
	Category        string   `yaml:"category"`
	Description     string   `yaml:"description"`
	LongDescription string   `yaml:"long_description"`
	Tags            []string `yaml:"tags"`
	LiveURL         string   `yaml:"live_url,omitempty"`
	RepoURL         string   `yaml:"repo_url,omitempty"`
	Image           string   `yaml:"image"`
}

// HasLive reports whether the project links to a live demo.
func (p Project) HasLive() bool { return linkPresent(p.LiveURL) }

// HasRepo reports whether the project links to its source.
func (p Project) HasRepo() bool { return linkPresent(p.RepoURL) }

// Certification is an award or certificate.
type Certification struct {
	Title  string `yaml:"title"`
	Issuer string `yaml:"issuer"`
	URL    string `yaml:"url"`
}

// A bare "#" is a placeholder in the source data, not a destination.
func linkPresent(u string) bool {
	u = strings.TrimSpace(u)
	return u != "" && u != "#"
}

// Default returns the embedded site content.
func Default() (*Site, error) {
	return Parse(defaultContent)
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

// Parse decodes and validates YAML content. Missing project slugs are
// derived from titles.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i := range site.Projects {
		if site.Projects[i].Slug == "" {
			site.Projects[i].Slug = Slugify(site.Projects[i].Title)
		}
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks the invariants the renderer relies on.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Profile.Name) == "" {
		return fmt.Errorf("%w: profile name is required", ErrInvalid)
	}

	seen := make(map[string]int, len(s.Projects))
	for i, p := range s.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("%w: project %d has no title", ErrInvalid, i)
		}
		if p.Slug == "" {
			return fmt.Errorf("%w: project %q has no usable slug", ErrInvalid, p.Title)
		}
		if j, dup := seen[p.Slug]; dup {
			return fmt.Errorf("%w: projects %d and %d share slug %q", ErrInvalid, j, i, p.Slug)
		}
		seen[p.Slug] = i

		for _, u := range []string{p.LiveURL, p.RepoURL, p.Image} {
			if !validLink(u) {
				return fmt.Errorf("%w: project %q has unsupported link %q", ErrInvalid, p.Slug, u)
			}
		}
	}

	for _, c := range s.Certifications {
		if strings.TrimSpace(c.Title) == "" {
			return fmt.Errorf("%w: certification without title", ErrInvalid)
		}
		if !validLink(c.URL) {
			return fmt.Errorf("%w: certification %q has unsupported link %q", ErrInvalid, c.Title, c.URL)
		}
	}

	for _, soc := range s.Profile.Socials {
		if !validLink(soc.URL) {
			return fmt.Errorf("%w: social %q has unsupported link %q", ErrInvalid, soc.Label, soc.URL)
		}
	}
	return nil
}

// Project looks up a project by slug.
func (s *Site) Project(slug string) (Project, bool) {
	for _, p := range s.Projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

func validLink(u string) bool {
	switch {
	case u == "", u == "#":
		return true
	case strings.HasPrefix(u, "https://"), strings.HasPrefix(u, "http://"):
		return true
	case strings.HasPrefix(u, "mailto:"):
		return true
	case strings.HasPrefix(u, "/"), strings.HasPrefix(u, "#"):
		return true
	}
	return false
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe identifier.
func Slugify(title string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
