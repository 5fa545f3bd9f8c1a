package fomod_test

import (
	"os"
	"path/filepath"
	"testing"

	"omm/internal/domain"
	"omm/internal/fomod"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wizardDescriptor = `<config>
  <moduleName>Mock Armory</moduleName>
  <installSteps order="Explicit">
    <installStep name="Core">
      <optionalFileGroups>
        <group name="Edition" type="SelectExactlyOne">
          <plugins order="Explicit">
            <plugin name="Full">
              <description>Everything.</description>
              <files>
                <folder source="00 Core" destination="Data"/>
              </files>
              <conditionFlags>
                <flag name="full">On</flag>
              </conditionFlags>
            </plugin>
            <plugin name="Lite">
              <files>
                <folder source="01 Lite" destination="Data"/>
              </files>
              <conditionFlags>
                <flag name="lite">On</flag>
              </conditionFlags>
            </plugin>
            <plugin name="Barebones">
              <files>
                <folder source="02 Bare" destination="Data"/>
              </files>
            </plugin>
          </plugins>
        </group>
      </optionalFileGroups>
    </installStep>
    <installStep name="Extras">
      <visible>
        <dependencies operator="and">
          <flagDependency flag="full" value="On"/>
        </dependencies>
      </visible>
      <optionalFileGroups>
        <group name="Textures" type="SelectAny">
          <plugins order="Explicit">
            <plugin name="4K Textures">
              <files>
                <folder source="10 Textures" destination="Data\textures"/>
              </files>
            </plugin>
          </plugins>
        </group>
      </optionalFileGroups>
    </installStep>
  </installSteps>
  <conditionalFileInstalls>
    <patterns>
      <pattern>
        <dependencies operator="and">
          <flagDependency flag="lite" value="On"/>
        </dependencies>
        <files>
          <folder source="20 LitePatch" destination="Data"/>
        </files>
      </pattern>
    </patterns>
  </conditionalFileInstalls>
  <requiredInstallFiles>
    <file source="readme.txt" destination="Data\readme.txt"/>
  </requiredInstallFiles>
</config>`

func writeDescriptor(t *testing.T, xml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ModuleConfig.xml")
	require.NoError(t, os.WriteFile(path, []byte(xml), 0644))
	return path
}

func newSession(t *testing.T) *fomod.Session {
	t.Helper()
	s, err := fomod.NewSession(writeDescriptor(t, wizardDescriptor))
	require.NoError(t, err)
	return s
}

func TestParse_Descriptor(t *testing.T) {
	desc, err := fomod.Parse(writeDescriptor(t, wizardDescriptor))
	require.NoError(t, err)

	assert.Equal(t, "Mock Armory", desc.ModuleName)
	require.Len(t, desc.Pages, 2)

	core := desc.Pages[0]
	assert.Equal(t, "Edition", core.Name)
	assert.Equal(t, "Core", core.StepName)
	assert.Equal(t, fomod.SelectExactlyOne, core.Arity)
	require.Len(t, core.Selections, 3)
	assert.Empty(t, core.Dependency.Flags)

	extras := desc.Pages[1]
	assert.Equal(t, "and", extras.Dependency.Operator)
	require.Len(t, extras.Dependency.Flags, 1)
	assert.Equal(t, "full", extras.Dependency.Flags[0].Name)
	assert.True(t, extras.Dependency.Flags[0].Value)

	require.Len(t, desc.Required, 1)
	assert.Equal(t, "readme.txt", desc.Required[0].Source)
	require.Len(t, desc.Patterns, 1)
}

func TestParse_DefaultDestinationIsLeaf(t *testing.T) {
	xml := `<config>
  <moduleName>Leaf</moduleName>
  <requiredInstallFiles>
    <file source="docs\readme.txt"/>
    <file source="readme.txt"/>
    <folder source="00 Core\Meshes" destination="meshes"/>
  </requiredInstallFiles>
</config>`

	desc, err := fomod.Parse(writeDescriptor(t, xml))
	require.NoError(t, err)

	require.Len(t, desc.Required, 3)
	assert.Equal(t, "readme.txt", desc.Required[0].Destination)
	assert.Equal(t, "readme.txt", desc.Required[1].Destination)
	assert.Equal(t, "meshes", desc.Required[2].Destination)
}

func TestParse_MalformedXML(t *testing.T) {
	_, err := fomod.Parse(writeDescriptor(t, "<config><unclosed>"))
	assert.ErrorIs(t, err, domain.ErrMalformedDescriptor)
}

func TestParse_MissingModuleName(t *testing.T) {
	_, err := fomod.Parse(writeDescriptor(t, "<config><installSteps/></config>"))
	assert.ErrorIs(t, err, domain.ErrMalformedDescriptor)
}

func TestSession_ExactlyOneAutoSelection(t *testing.T) {
	s := newSession(t)
	page := s.CurrentPage()
	require.NotNil(t, page)

	assert.True(t, page.Selections[0].Selected)
	assert.False(t, page.Selections[1].Selected)
	assert.False(t, page.Selections[2].Selected)
}

func TestSession_ExactlyOneArityInvariant(t *testing.T) {
	s := newSession(t)
	page := s.CurrentPage()

	for _, index := range []int{1, 2, 2, 0, 1} {
		require.NoError(t, s.Select(index))
		selected := 0
		for _, sel := range page.Selections {
			if sel.Selected {
				selected++
			}
		}
		assert.Equal(t, 1, selected)
	}
	assert.True(t, page.Selections[1].Selected)
}

func TestSession_SelectOutOfRange(t *testing.T) {
	s := newSession(t)
	before := *s.CurrentPage().Selections[0]

	assert.ErrorIs(t, s.Select(99), domain.ErrInvalidIndex)
	assert.ErrorIs(t, s.Select(-1), domain.ErrInvalidIndex)
	assert.Equal(t, before, *s.CurrentPage().Selections[0])
}

func TestSession_FlagGatedVisibility(t *testing.T) {
	s := newSession(t)

	// "Full" preselected sets the full flag; the Extras page is visible.
	done := s.Advance()
	assert.False(t, done)
	assert.Equal(t, "Textures", s.CurrentPage().Name)

	// Selecting "Lite" instead hides Extras: next Advance is terminal.
	require.NoError(t, s.Retreat())
	require.NoError(t, s.Select(1))
	assert.True(t, s.Advance())
}

func TestSession_FlagIdempotence(t *testing.T) {
	s := newSession(t)
	before := s.Flags()
	s.Advance()
	assert.Equal(t, before, s.Flags())
}

func TestSession_RetreatAtFirstPage(t *testing.T) {
	s := newSession(t)
	err := s.Retreat()
	assert.ErrorIs(t, err, domain.ErrPageBoundary)

	index, _ := s.Position()
	assert.Equal(t, 0, index)
}

func TestSession_ResolveNodes_FullPath(t *testing.T) {
	s := newSession(t)
	s.Advance()        // Full edition, onto Extras
	_ = s.Select(0)    // 4K textures
	done := s.Advance()
	require.True(t, done)

	nodes, err := s.ResolveNodes()
	require.NoError(t, err)

	sources := make([]string, 0, len(nodes))
	for _, node := range nodes {
		sources = append(sources, node.Source)
	}
	assert.Contains(t, sources, "00 Core")
	assert.Contains(t, sources, "10 Textures")
	assert.Contains(t, sources, "readme.txt")
	assert.NotContains(t, sources, "01 Lite", "unselected edition must not contribute")
	assert.NotContains(t, sources, "20 LitePatch", "pattern gated on lite flag")
}

func TestSession_ResolveNodes_PatternMatches(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Select(1)) // Lite
	require.True(t, s.Advance())

	nodes, err := s.ResolveNodes()
	require.NoError(t, err)

	sources := make([]string, 0, len(nodes))
	for _, node := range nodes {
		sources = append(sources, node.Source)
	}
	assert.Contains(t, sources, "01 Lite")
	assert.Contains(t, sources, "20 LitePatch")
	assert.NotContains(t, sources, "10 Textures")
}

func TestSession_EmptyResolutionIsFatal(t *testing.T) {
	// One AtMostOne page, nothing required, no patterns: deselecting
	// everything leaves nothing to install.
	xml := `<config>
  <moduleName>Empty</moduleName>
  <installSteps>
    <installStep name="Only">
      <optionalFileGroups>
        <group name="Choice" type="SelectAtMostOne">
          <plugins>
            <plugin name="Things">
              <files><folder source="00 Things"/></files>
            </plugin>
          </plugins>
        </group>
      </optionalFileGroups>
    </installStep>
  </installSteps>
</config>`
	s, err := fomod.NewSession(writeDescriptor(t, xml))
	require.NoError(t, err)

	require.True(t, s.Advance())
	_, err = s.ResolveNodes()
	assert.ErrorIs(t, err, domain.ErrNoInstallableFiles)
}

func TestSession_LastWriterWinsOnFlagCollision(t *testing.T) {
	xml := `<config>
  <moduleName>Collide</moduleName>
  <installSteps>
    <installStep name="Only">
      <optionalFileGroups>
        <group name="Both" type="SelectAll">
          <plugins>
            <plugin name="First">
              <files><folder source="a"/></files>
              <conditionFlags><flag name="shared">On</flag></conditionFlags>
            </plugin>
            <plugin name="Second">
              <files><folder source="b"/></files>
              <conditionFlags><flag name="shared">Off</flag></conditionFlags>
            </plugin>
          </plugins>
        </group>
      </optionalFileGroups>
    </installStep>
  </installSteps>
</config>`
	s, err := fomod.NewSession(writeDescriptor(t, xml))
	require.NoError(t, err)

	require.NoError(t, s.Select(0))
	require.NoError(t, s.Select(1))
	s.Advance()

	assert.False(t, s.Flags()["shared"], "later selection in page order overwrites the flag")
}
