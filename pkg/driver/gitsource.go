package driver

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// FetchGit clones sel.URL into memory, checks out the requested revision,
// and reads sel.Path from the worktree. Nothing touches the local disk.
func FetchGit(ctx context.Context, sel GitSource) (Source, error) {
	if err := sel.validate(); err != nil {
		return Source{}, err
	}
	revision, descriptor := gitRevision(sel)

	fs := memfs.New()
	repo, err := git.CloneContext(ctx, memory.NewStorage(), fs, &git.CloneOptions{
		URL:        sel.URL,
		NoCheckout: true,
	})
	if err != nil {
		return Source{}, fmt.Errorf("git clone %s: %w", sel.URL, err)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return Source{}, fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return Source{}, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return Source{}, fmt.Errorf("git checkout %s: %w", revision, err)
	}

	file := path.Clean("/" + strings.TrimPrefix(sel.Path, "/"))
	data, err := util.ReadFile(worktree.Filesystem, file)
	if err != nil {
		return Source{}, fmt.Errorf("git read %s at %s: %w", sel.Path, descriptor, err)
	}
	return Source{
		Name: fmt.Sprintf("%s@%s:%s", sel.URL, pinned(descriptor, hash.String()), strings.TrimPrefix(file, "/")),
		Data: data,
	}, nil
}

func gitRevision(sel GitSource) (plumbing.Revision, string) {
	switch {
	case sel.Rev != "":
		return plumbing.Revision(sel.Rev), sel.Rev
	case sel.Tag != "":
		return plumbing.Revision("refs/tags/" + sel.Tag), sel.Tag
	case sel.Branch != "":
		return plumbing.Revision("refs/remotes/origin/" + sel.Branch), sel.Branch
	default:
		return plumbing.Revision(plumbing.HEAD), string(plumbing.HEAD)
	}
}

func pinned(descriptor, commit string) string {
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if descriptor == "" || descriptor == string(plumbing.HEAD) || strings.HasPrefix(commit, descriptor) {
		return commit
	}
	return descriptor + "@" + commit
}
