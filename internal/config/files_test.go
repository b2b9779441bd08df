package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const rangesJSON = `{
  "testRepos": [
    {"repositoryName": "org/api", "oldCommit": "v1.0.0", "newCommit": "v1.1.0"},
    {"repositoryName": "Legacy", "oldCommit": "a", "newCommit": "b", "useGitHub": false},
    {"repositoryName": "Web Frontend", "oldCommit": "c", "newCommit": "d", "useGitHub": true}
  ]
}`

const rangesYAML = `testRepos:
  - repositoryName: org/api
    oldCommit: v1.0.0
    newCommit: v1.1.0
  - repositoryName: Legacy
    oldCommit: a
    newCommit: b
    useGitHub: false
  - repositoryName: Web Frontend
    oldCommit: c
    newCommit: d
    useGitHub: true
`

const rangesTOML = `[[testRepos]]
repositoryName = "org/api"
oldCommit = "v1.0.0"
newCommit = "v1.1.0"

[[testRepos]]
repositoryName = "Legacy"
oldCommit = "a"
newCommit = "b"
useGitHub = false

[[testRepos]]
repositoryName = "Web Frontend"
oldCommit = "c"
newCommit = "d"
useGitHub = true
`

func TestLoadRanges_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "test_config.json", rangesJSON},
		{"yaml", "ranges.yaml", rangesYAML},
		{"yml", "ranges.yml", rangesYAML},
		{"toml", "ranges.toml", rangesTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf, err := LoadRanges(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadRanges error: %v", err)
			}
			if len(rf.TestRepos) != 3 {
				t.Fatalf("ranges = %d, want 3", len(rf.TestRepos))
			}
			first := rf.TestRepos[0]
			if first.RepositoryName != "org/api" || first.OldCommit != "v1.0.0" || first.NewCommit != "v1.1.0" {
				t.Errorf("first range = %+v", first)
			}
			if !first.OnGitHub() {
				t.Error("absent useGitHub should default to true")
			}
			if rf.TestRepos[1].OnGitHub() {
				t.Error("useGitHub=false not honored")
			}
			if !rf.TestRepos[2].OnGitHub() {
				t.Error("useGitHub=true not honored")
			}
		})
	}
}

func TestLoadRanges_Missing(t *testing.T) {
	_, err := LoadRanges(filepath.Join(t.TempDir(), "nope.json"))
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "rangesFile" {
		t.Fatalf("error = %v, want rangesFile ConfigError", err)
	}
}

func TestLoadRanges_Empty(t *testing.T) {
	_, err := LoadRanges(writeFile(t, "test_config.json", `{"testRepos": []}`))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestLoadRanges_Malformed(t *testing.T) {
	_, err := LoadRanges(writeFile(t, "ranges.yaml", "testRepos: [unclosed"))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestLoadRepoList(t *testing.T) {
	path := writeFile(t, "repo_list.json", `{"repos": [
		{"repositoryName": "Web Frontend", "gitHubRepoUrl": "https://github.com/org/web.git", "azDoRepoUrl": "https://dev.azure.com/org/web"}
	]}`)
	list, err := LoadRepoList(path)
	if err != nil {
		t.Fatalf("LoadRepoList error: %v", err)
	}
	if len(list.Repos) != 1 || list.Repos[0].GitHubRepoURL != "https://github.com/org/web.git" {
		t.Errorf("repos = %+v", list.Repos)
	}
	if list.Repos[0].AzDoRepoURL == "" {
		t.Error("azDoRepoUrl not loaded")
	}
}

func TestLoadRepoList_Missing(t *testing.T) {
	_, err := LoadRepoList(filepath.Join(t.TempDir(), "repo_list.json"))
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "repoListFile" {
		t.Fatalf("error = %v, want repoListFile ConfigError", err)
	}
}

func TestTargets(t *testing.T) {
	no := false
	ranges := RangeFile{TestRepos: []RangeEntry{
		{RepositoryName: "org/api", OldCommit: "v1", NewCommit: "v2"},
		{RepositoryName: "Legacy", OldCommit: "a", NewCommit: "b", UseGitHub: &no},
		{RepositoryName: "Web Frontend", OldCommit: "c", NewCommit: "d"},
		{RepositoryName: "no-slash", OldCommit: "e", NewCommit: "f"},
	}}
	repos := RepoList{Repos: []RepoEntry{
		{RepositoryName: "web frontend", GitHubRepoURL: "git@github.com:org/web.git"},
		{RepositoryName: "org/api", GitHubRepoURL: "https://github.com/upstream/api"},
	}}

	targets, skipped := Targets(ranges, repos)

	if len(skipped) != 1 || skipped[0].RepositoryName != "Legacy" {
		t.Errorf("skipped = %+v", skipped)
	}
	if len(targets) != 3 {
		t.Fatalf("targets = %d, want 3", len(targets))
	}

	want := []Target{
		{Name: "org/api", Owner: "upstream", Repo: "api", OldCommit: "v1", NewCommit: "v2"},
		{Name: "Web Frontend", Owner: "org", Repo: "web", OldCommit: "c", NewCommit: "d"},
		{Name: "no-slash", OldCommit: "e", NewCommit: "f"},
	}
	for i, w := range want {
		if targets[i] != w {
			t.Errorf("targets[%d] = %+v, want %+v", i, targets[i], w)
		}
	}
}
