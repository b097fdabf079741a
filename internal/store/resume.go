package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/jonathan/talentmatrix/internal/fetch"
	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// storedResumeName is the file name used when re-uploading a stored resume.
const storedResumeName = "resume.pdf"

// ScanSource is the resume to scan: a local file or the URL of a resume
// already stored by the Gateway.
type ScanSource struct {
	File      *types.FileUpload
	StoredURL string
}

// ResumeState is the resume scan slice.
type ResumeState struct {
	ParsedSkills *gateway.ExtractResult `json:"parsedSkills"`
	ShowRaw      bool                   `json:"showRaw"`
	Scan         OpState                `json:"scan"`
}

func (s ResumeState) clone() ResumeState {
	out := s
	out.ParsedSkills = s.ParsedSkills.Clone()
	return out
}

// Resume owns the resume scanner screen.
type Resume struct {
	slice     *Slice[ResumeState]
	gw        Gateway
	fetchOpts *fetch.Options
	logger    *slog.Logger
}

func newResume(deps Deps) *Resume {
	opts := deps.Fetch
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Resume{
		slice:     NewSlice("resume", ResumeState{}, ResumeState.clone, deps.Logger),
		gw:        deps.Gateway,
		fetchOpts: opts,
		logger:    deps.Logger,
	}
}

// State returns a copy of the resume slice.
func (r *Resume) State() ResumeState {
	return r.slice.Get()
}

// Subscribe forwards to the underlying slice.
func (r *Resume) Subscribe(buffer int) (<-chan Change, func()) {
	return r.slice.Subscribe(buffer)
}

func (r *Resume) reset() {
	r.slice.Reset(ResumeState{})
}

// Scan extracts skills from the source. Starting a scan clears the previous
// result, and a newer scan supersedes one still in flight.
func (r *Resume) Scan(ctx context.Context, src ScanSource) (*gateway.ExtractResult, error) {
	t := r.slice.Begin("scan", func(st *ResumeState) {
		st.ParsedSkills = nil
		st.Scan = loading()
	})
	fail := func(msg string, err error) (*gateway.ExtractResult, error) {
		r.slice.Commit(t, func(st *ResumeState) { st.Scan = failed(msg) })
		return nil, err
	}

	file, err := r.resolve(ctx, src)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			return fail("Failed to download stored resume", err)
		}
		return fail(err.Error(), err)
	}

	result, err := r.gw.ExtractSkills(ctx, file)
	if err != nil {
		return fail(gateway.ServerMessage(err, "Parse failed"), err)
	}
	r.slice.Commit(t, func(st *ResumeState) {
		st.ParsedSkills = result.Clone()
		st.Scan = succeeded()
	})
	return result, nil
}

func (r *Resume) resolve(ctx context.Context, src ScanSource) (types.FileUpload, error) {
	if src.File != nil {
		return *src.File, nil
	}
	if src.StoredURL == "" {
		return types.FileUpload{}, &types.ValidationError{Field: "file", Message: "Please select a resume file"}
	}
	res, err := fetch.URL(ctx, src.StoredURL, r.fetchOpts)
	if err != nil {
		return types.FileUpload{}, err
	}
	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	return types.FileUpload{
		Name:        storedResumeName,
		ContentType: contentType,
		Body:        bytes.NewReader(res.Body),
	}, nil
}

// ToggleRawView flips between the categorized and raw-text views.
func (r *Resume) ToggleRawView() bool {
	var raw bool
	r.slice.Update("raw", func(st *ResumeState) {
		st.ShowRaw = !st.ShowRaw
		raw = st.ShowRaw
	})
	return raw
}

// Clear discards the scan result and any scan in flight.
func (r *Resume) Clear() {
	r.reset()
}

// ApplyExtractedSkills adds every extracted skill not already on the profile
// as an Intermediate skill tagged "Extracted". It keeps going after a
// failure and returns the number added and the first error.
func ApplyExtractedSkills(ctx context.Context, result *gateway.ExtractResult, profile *Profile) (int, error) {
	if result == nil {
		return 0, nil
	}
	names := parsing.NormalizeSkillNames(
		parsing.FlattenSkillCategories(result.Categories, result.Skills),
		profile.Get().SkillNames(),
	)

	var (
		added    int
		firstErr error
	)
	for _, name := range names {
		_, err := profile.AddSkill(ctx, types.SkillDraft{
			Name:        name,
			Proficiency: types.ProficiencyIntermediate,
			Tags:        "Extracted",
		})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if errors.Is(err, ErrNotLoggedIn) || ctx.Err() != nil {
				break
			}
			continue
		}
		added++
	}
	return added, firstErr
}
