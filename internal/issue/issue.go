// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SpecFileNotFoundId Id = iota + 1
	SpecFileFormatErrorId
	ConflictingSpecFilesId
	ConflictingTargetId
	NoTargetId
	ConflictingChannelPriorityId
	RCLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	specFileNotFoundIssue = &Issue{
		id: SpecFileNotFoundId,
		mdMsg: `
# Spec file not found!

A file passed via ` + "`-f/--file`" + ` does not exist.

## Things you can try:
- Check the path for typos
- Use an absolute path when running from a different directory
- List the directory to confirm the file name:
~~~
$ ls -l path/to/specs
~~~`,
	}

	specFileFormatErrorIssue = &Issue{
		id: SpecFileFormatErrorId,
		mdMsg: `
# Failed to parse spec file!

The spec file is malformed for its detected format.

## How formats are detected:
1. First non-blank line equals ` + "`@EXPLICIT`" + ` → explicit URL list
2. File extension is ` + "`.yml`/`.yaml`" + ` → environment description
3. Anything else → classic requirement list

## Things you can try:
- For environment descriptions, make sure a ` + "`dependencies:`" + ` sequence is present:
~~~yaml
name: stats
channels: [conda-forge]
dependencies:
  - xtensor >0.20
  - xsimd
~~~
- For explicit files, each entry must be a package URL with a content hash:
~~~
@EXPLICIT
https://conda.anaconda.org/conda-forge/linux-64/xtensor-0.21.5-hc9558a2_0.tar.bz2#d330e02e5ed58330638a24601b7e4887
~~~`,
	}

	conflictingSpecFilesIssue = &Issue{
		id: ConflictingSpecFilesId,
		mdMsg: `
# Conflicting spec files!

More than one environment description (YAML) file was supplied, or an
environment description was mixed with classic/explicit files. It is
ambiguous which name and channel list should win.

## Things you can try:
- Pass a single YAML environment description:
~~~
$ marmot install -f env.yaml
~~~
- Or merge your requirement lists into classic files, which concatenate:
~~~
$ marmot install -f base.txt -f extra.txt
~~~`,
	}

	conflictingTargetIssue = &Issue{
		id: ConflictingTargetId,
		mdMsg: `
# Conflicting target specification!

Both a prefix path and an environment name were supplied. Even when they
point at the same environment, the combination is rejected as ambiguous.

## Path-class sources:
- ` + "`-p/--prefix`" + `
- ` + "`MAMBA_TARGET_PREFIX`" + `

## Name-class sources:
- ` + "`-n/--name`" + `
- ` + "`name:`" + ` in a YAML environment description

## Things you can try:
- Keep exactly one of the two classes:
~~~
$ marmot install -n myenv xtensor
$ marmot install -p ~/.marmot/envs/myenv xtensor
~~~`,
	}

	noTargetIssue = &Issue{
		id: NoTargetId,
		mdMsg: `
# No target environment specified!

No prefix, no environment name, and no active environment to fall back to.

## Things you can try:
- Name the environment explicitly:
~~~
$ marmot install -n myenv xtensor
~~~
- Or activate an environment first so marmot can fall back to it
- Or pass a prefix path with ` + "`-p`" + ``,
	}

	conflictingChannelPriorityIssue = &Issue{
		id: ConflictingChannelPriorityId,
		mdMsg: `
# Conflicting channel priority flags!

The channel-priority flags disagree about the resulting mode.

## The three mechanisms:
- ` + "`--channel-priority {disabled,flexible,strict}`" + ` sets an explicit value
- ` + "`--no-channel-priority`" + ` forces ` + "`disabled`" + `
- ` + "`--strict-channel-priority`" + ` forces ` + "`strict`" + `

An explicit value combined with a boolean switch must agree on the same
mode, and the two boolean switches can never be combined.

## Things you can try:
- Drop the redundant flag and keep a single mechanism:
~~~
$ marmot install --strict-channel-priority xtensor
~~~`,
	}

	rcLoadFailedIssue = &Issue{
		id: RCLoadFailedId,
		mdMsg: `
# Failed to load run-control file!

Could not load the marmot rc file.

## RC file locations (in order):
1. Path passed via ` + "`--rc-file`" + `
2. ` + "`~/.marmotrc`" + `
3. ` + "`$XDG_CONFIG_HOME/marmot/rc.yaml`" + `

## Understood keys:
~~~yaml
channels: [conda-forge]
channel_alias: https://conda.anaconda.org
channel_priority: flexible
~~~

## Things you can try:
- Check the YAML syntax
- Remove unknown keys
- Skip rc loading entirely with ` + "`--no-rc`" + ``,
	}

	issues = map[Id]*Issue{
		specFileNotFoundIssue.Id():           specFileNotFoundIssue,
		specFileFormatErrorIssue.Id():        specFileFormatErrorIssue,
		conflictingSpecFilesIssue.Id():       conflictingSpecFilesIssue,
		conflictingTargetIssue.Id():          conflictingTargetIssue,
		noTargetIssue.Id():                   noTargetIssue,
		conflictingChannelPriorityIssue.Id(): conflictingChannelPriorityIssue,
		rcLoadFailedIssue.Id():               rcLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
