package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/rng"
	"neondrift.city/internal/sim/tuning"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
	"neondrift.city/internal/sim/world/logic/mathx"
)

func generate(t *testing.T, seed uint64) *Result {
	t.Helper()
	cat, err := catalogs.Default()
	require.NoError(t, err)
	res, err := Generate(rng.New(seed), ConfigFrom(tuning.Defaults()), cat)
	require.NoError(t, err)
	return res
}

func TestZoneLayout(t *testing.T) {
	assert.Equal(t, modelpkg.ZoneLowSignal, ZoneAt(60, 40, 120, 80))
	assert.Equal(t, modelpkg.ZoneNeonCommercial, ZoneAt(5, 5, 120, 80))
	assert.Equal(t, modelpkg.ZoneRooftopNetwork, ZoneAt(115, 5, 120, 80))
	assert.Equal(t, modelpkg.ZoneResidential, ZoneAt(5, 75, 120, 80))
	assert.Equal(t, modelpkg.ZoneIndustrial, ZoneAt(115, 75, 120, 80))
}

func TestStartAreaIsClear(t *testing.T) {
	res := generate(t, 7)
	cx, cy := res.Grid.Center()
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			tile, ok := res.Grid.At(cx+dx, cy+dy)
			require.True(t, ok)
			assert.True(t, tile.Walkable)
			assert.Equal(t, modelpkg.InteractNone, tile.Interaction)
			assert.Empty(t, tile.Drop)
		}
	}
}

func TestRosters(t *testing.T) {
	res := generate(t, 11)
	require.Len(t, res.NPCs, 100)

	byRole := map[modelpkg.Role]int{}
	for _, n := range res.NPCs {
		byRole[n.Role]++
		tile, ok := res.Grid.At(n.X, n.Y)
		require.True(t, ok)
		assert.True(t, tile.Walkable, "npc %d on a blocked tile", n.ID)
		switch n.Role {
		case modelpkg.RoleMerchant:
			assert.Len(t, n.Shop, 4)
		case modelpkg.RoleQuestGiver:
			assert.NotEmpty(t, n.QuestID)
		case modelpkg.RoleFaction:
			assert.NotEqual(t, modelpkg.FactionNone, n.Faction)
		case modelpkg.RoleStranger:
		}
	}
	assert.Equal(t, 60, byRole[modelpkg.RoleStranger])
	assert.Equal(t, 15, byRole[modelpkg.RoleMerchant])
	assert.Equal(t, 10, byRole[modelpkg.RoleQuestGiver])
	assert.Equal(t, 15, byRole[modelpkg.RoleFaction])

	cx, cy := res.Grid.Center()
	assert.LessOrEqual(t, len(res.Enemies), 60)
	seen := map[modelpkg.EnemyID]bool{}
	for _, e := range res.Enemies {
		assert.False(t, mathx.AbsInt(e.X-cx) < 15 && mathx.AbsInt(e.Y-cy) < 15, "enemy spawned near start")
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
		assert.Less(t, e.ID, res.NextEnemyID)
	}
}

func TestDoorsBlock(t *testing.T) {
	res := generate(t, 3)
	for _, tile := range res.Grid.Tiles {
		if tile.Interaction == modelpkg.InteractDoor {
			assert.False(t, tile.Walkable)
		}
		if tile.Error > 0 {
			assert.True(t, tile.Zone == modelpkg.ZoneIndustrial || tile.Zone == modelpkg.ZoneLowSignal)
		}
	}
}

func TestDeterministicFromSeed(t *testing.T) {
	a, b := generate(t, 99), generate(t, 99)
	assert.Equal(t, a.Grid.Tiles, b.Grid.Tiles)
	assert.Equal(t, a.NPCs, b.NPCs)
	assert.Equal(t, a.Enemies, b.Enemies)
}

func TestGenerateRejectsEmptyCatalog(t *testing.T) {
	_, err := Generate(rng.New(1), ConfigFrom(tuning.Defaults()), &catalogs.Catalogs{})
	assert.Error(t, err)
}
