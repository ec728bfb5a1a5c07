package picker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hayeah/evmpages/ignore"
	"github.com/hayeah/evmpages/internal/assert"
	"github.com/stretchr/testify/require"
)

// script answers each prompt by choosing the entry with the next label in
// picks. It records every set of options it was shown.
type script struct {
	picks []string
	shown [][]string
}

func (s *script) Select(ctx context.Context, title string, options []string) (int, error) {
	s.shown = append(s.shown, options)
	if len(s.picks) == 0 {
		return 0, errors.New("script exhausted")
	}
	want := s.picks[0]
	s.picks = s.picks[1:]
	for i, o := range options {
		if o == want {
			return i, nil
		}
	}
	return 0, errors.New("no option " + want)
}

func childLabels(l *Listing) []string {
	var labels []string
	for _, e := range l.Children() {
		labels = append(labels, e.Label)
	}
	return labels
}

func TestBuildListingFiltersByExtension(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("A/", "B/", "x.html", "y.txt")

	l, err := BuildListing(root, "html", nil)
	require.NoError(t, err)

	assert.ElementsMatch([]string{
		filepath.Join(root, "A"),
		filepath.Join(root, "B"),
		filepath.Join(root, "x.html"),
	}, childLabels(l))

	for _, e := range l.Children() {
		if e.Label == filepath.Join(root, "x.html") {
			assert.False(e.IsDir)
		} else {
			assert.True(e.IsDir)
		}
	}
}

func TestBuildListingExtensionIsCaseSensitive(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("upper.HTML", "lower.html", "page.min.html", ".html", "html")

	l, err := BuildListing(root, "html", nil)
	require.NoError(t, err)

	assert.ElementsMatch([]string{
		filepath.Join(root, "lower.html"),
		filepath.Join(root, "page.min.html"),
	}, childLabels(l))
}

func TestBuildListingParentEntry(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("sub/page.html")
	sub := filepath.Join(root, "sub")

	l, err := BuildListing(sub, "html", nil)
	require.NoError(t, err)
	require.NotEmpty(t, l.Entries)

	assert.True(l.Entries[0].Up)
	assert.Equal(UpLabel, l.Entries[0].Label)
	assert.Equal(root, l.Entries[0].Path)
	assert.True(l.Entries[0].IsDir)

	fsRoot := filepath.VolumeName(root) + string(os.PathSeparator)
	l, err = BuildListing(fsRoot, "html", nil)
	require.NoError(t, err)
	for _, e := range l.Entries {
		assert.False(e.Up, "filesystem root has no parent entry")
	}
}

func TestBuildListingRelativeDirHasParent(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("top.html", "D/inner.html")
	t.Chdir(filepath.Join(root, "D"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	parent := filepath.Dir(wd)

	l, err := BuildListing(".", "html", nil)
	require.NoError(t, err)
	require.NotEmpty(t, l.Entries)
	assert.Equal(wd, l.Dir)
	assert.True(l.Entries[0].Up)
	assert.Equal(parent, l.Entries[0].Path)
	assert.Equal([]string{filepath.Join(wd, "inner.html")}, childLabels(l))

	l, err = BuildListing("..", "html", nil)
	require.NoError(t, err)
	require.NotEmpty(t, l.Entries)
	assert.True(l.Entries[0].Up)
	assert.Equal(filepath.Dir(parent), l.Entries[0].Path, "going up from .. moves higher")
}

func TestBuildListingKeepsDanglingLink(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("real.html")
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.html"), filepath.Join(root, "link.html")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "link.txt")))

	l, err := BuildListing(root, "html", nil)
	require.NoError(t, err)
	assert.ElementsMatch([]string{
		filepath.Join(root, "real.html"),
		filepath.Join(root, "link.html"),
	}, childLabels(l))
	for _, e := range l.Children() {
		assert.False(e.IsDir, e.Label)
	}
}

func TestBuildListingIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("a/", "b.html", "c.html", "d.css")

	first, err := BuildListing(root, "html", nil)
	require.NoError(t, err)
	second, err := BuildListing(root, "html", nil)
	require.NoError(t, err)

	assert.ElementsMatch(first.Entries, second.Entries)
}

func TestBuildListingUnreadableDirectory(t *testing.T) {
	assert := assert.New(t)

	_, err := BuildListing(filepath.Join(t.TempDir(), "missing"), "html", nil)

	var ioErr *IOError
	assert.True(errors.As(err, &ioErr))
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestBuildListingWithIgnore(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("drafts/", "index.html", "index.min.html")
	assert.WriteFile(filepath.Join(root, ".gitignore"), "drafts/\n*.min.html\n")

	ig, err := ignore.NewIgnore(root)
	require.NoError(t, err)

	l, err := BuildListing(root, "html", ig)
	require.NoError(t, err)
	assert.Equal([]string{filepath.Join(root, "index.html")}, childLabels(l))

	l, err = BuildListing(root, "html", nil)
	require.NoError(t, err)
	assert.Len(l.Children(), 3)
}

func TestPickDescendsAndSelects(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("a.html", "sub/b.html")

	s := &script{picks: []string{
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "b.html"),
	}}

	res, err := Pick(context.Background(), root, "html", s)
	require.NoError(t, err)
	assert.Equal(Selected, res.Outcome)
	assert.Equal(filepath.Join(root, "sub", "b.html"), res.Path)
	assert.Len(s.shown, 2)
}

func TestPickSelectsFileUnchanged(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("a.html")

	s := &script{picks: []string{filepath.Join(root, "a.html")}}

	res, err := Pick(context.Background(), root, "html", s)
	require.NoError(t, err)
	assert.Equal(Result{Outcome: Selected, Path: filepath.Join(root, "a.html")}, res)
}

func TestPickGoUpMatchesParentListing(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("top.html", "D/inner.html", "D/E/")
	d := filepath.Join(root, "D")

	s := &script{picks: []string{UpLabel, filepath.Join(root, "top.html")}}
	res, err := Pick(context.Background(), d, "html", s)
	require.NoError(t, err)
	assert.Equal(filepath.Join(root, "top.html"), res.Path)

	direct := &script{picks: []string{filepath.Join(root, "top.html")}}
	_, err = Pick(context.Background(), root, "html", direct)
	require.NoError(t, err)

	require.Len(t, s.shown, 2)
	assert.Equal(direct.shown[0], s.shown[1])
}

func TestPickFromWorkingDirectoryGoesUp(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("top.html", "D/inner.html")
	t.Chdir(filepath.Join(root, "D"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	top := filepath.Join(filepath.Dir(wd), "top.html")

	s := &script{picks: []string{UpLabel, top}}
	res, err := Pick(context.Background(), ".", "html", s)
	require.NoError(t, err)
	assert.Equal(Selected, res.Outcome)
	assert.Equal(top, res.Path)
}

func TestPickEmptyListing(t *testing.T) {
	assert := assert.New(t)

	called := false
	p := PrompterFunc(func(ctx context.Context, title string, options []string) (int, error) {
		called = true
		return 0, nil
	})

	l := &Listing{Dir: "/nowhere"}
	_, err := choose(context.Background(), p, "title", l)

	assert.False(called, "an empty list is never shown")
	assert.ErrorIs(err, ErrEmptyListing)
	var promptErr *PromptError
	assert.True(errors.As(err, &promptErr))
}

func TestPickCancelled(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("a.html")

	p := PrompterFunc(func(ctx context.Context, title string, options []string) (int, error) {
		return 0, ErrCancelled
	})
	res, err := Pick(context.Background(), root, "html", p)
	require.NoError(t, err)
	assert.Equal(Cancelled, res.Outcome)
	assert.Empty(res.Path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err = Pick(ctx, root, "html", &script{})
	require.NoError(t, err)
	assert.Equal(Cancelled, res.Outcome)
}

func TestPickPromptFailure(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("a.html")
	boom := errors.New("terminal closed")

	p := PrompterFunc(func(ctx context.Context, title string, options []string) (int, error) {
		return 0, boom
	})
	_, err := Pick(context.Background(), root, "html", p)

	var promptErr *PromptError
	assert.True(errors.As(err, &promptErr))
	assert.ErrorIs(err, boom)

	outOfRange := PrompterFunc(func(ctx context.Context, title string, options []string) (int, error) {
		return len(options), nil
	})
	_, err = Pick(context.Background(), root, "html", outOfRange)
	assert.True(errors.As(err, &promptErr))
}

func TestPickTitle(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree("a.html")

	var titles []string
	p := PrompterFunc(func(ctx context.Context, title string, options []string) (int, error) {
		titles = append(titles, title)
		return len(options) - 1, nil
	})

	_, err := Pick(context.Background(), root, "html", p, WithTitle(func(dir string) string {
		return "browse " + dir
	}))
	require.NoError(t, err)
	assert.Equal([]string{"browse " + root}, titles)
}

func TestExtension(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("html", Extension("index.html"))
	assert.Equal("html", Extension("index.min.html"))
	assert.Equal("html", Extension("dir/page.html"))
	assert.Equal("", Extension(".html"))
	assert.Equal("html", Extension(".hidden.html"))
	assert.Equal("", Extension("Makefile"))
}
