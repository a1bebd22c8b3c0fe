package service

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nochase/nochase/internal/markdown"
	"github.com/nochase/nochase/internal/model"
)

var ErrResourceNotFound = errors.New("resource not found")

type resourceMeta struct {
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}

// ResourceService serves the reading list. Articles are markdown files with
// frontmatter, one per slug, parsed once at load time.
type ResourceService struct {
	fsys      fs.FS
	resources map[string]*model.Resource
	ordered   []*model.Resource
}

func NewResourceService(fsys fs.FS) *ResourceService {
	return &ResourceService{
		fsys:      fsys,
		resources: make(map[string]*model.Resource),
	}
}

func (s *ResourceService) LoadResources() error {
	files, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read resources directory: %w", err)
	}

	parser := markdown.NewParser()
	caser := cases.Title(language.English)

	resources := make(map[string]*model.Resource)
	ordered := make([]*model.Resource, 0, len(files))

	for _, file := range files {
		if file.IsDir() || path.Ext(file.Name()) != ".md" {
			continue
		}

		slug := strings.TrimSuffix(file.Name(), ".md")
		source, err := fs.ReadFile(s.fsys, file.Name())
		if err != nil {
			return fmt.Errorf("failed to read resource %s: %w", slug, err)
		}

		var meta resourceMeta
		html, err := parser.ParseInto(source, &meta)
		if err != nil {
			return fmt.Errorf("failed to parse resource %s: %w", slug, err)
		}

		title := meta.Title
		if title == "" {
			title = caser.String(strings.ReplaceAll(slug, "-", " "))
		}
		category := meta.Category
		if category == "" {
			category = "general"
		}

		resource := &model.Resource{
			Slug:        slug,
			Title:       title,
			Category:    caser.String(strings.ReplaceAll(category, "-", " ")),
			Type:        meta.Type,
			Description: meta.Description,
			Order:       meta.Order,
			Content:     string(html),
		}
		resources[slug] = resource
		ordered = append(ordered, resource)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Category != ordered[j].Category {
			return ordered[i].Category < ordered[j].Category
		}
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].Slug < ordered[j].Slug
	})

	s.resources = resources
	s.ordered = ordered
	return nil
}

// Resources lists every resource without its rendered body.
func (s *ResourceService) Resources() []model.Resource {
	out := make([]model.Resource, 0, len(s.ordered))
	for _, r := range s.ordered {
		item := *r
		item.Content = ""
		out = append(out, item)
	}
	return out
}

func (s *ResourceService) Resource(slug string) (*model.Resource, error) {
	resource, ok := s.resources[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, slug)
	}
	copied := *resource
	return &copied, nil
}
