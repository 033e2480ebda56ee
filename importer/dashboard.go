package importer

import (
	"context"
	"strings"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/models"
)

// dashboardColumns locates the location columns of a Dashboard header row.
type dashboardColumns struct {
	district, taluka, village, referral int
}

func findDashboardHeader(rows [][]string) (int, dashboardColumns, bool) {
	limit := len(rows)
	if limit > dashboardScanRows {
		limit = dashboardScanRows
	}

	for i := 0; i < limit; i++ {
		cols := dashboardColumns{district: -1, taluka: -1, village: -1, referral: -1}
		for j, cell := range rows[i] {
			c := compact(cell)
			switch {
			case strings.Contains(c, "district") && cols.district < 0:
				cols.district = j
			case strings.Contains(c, "taluka") && cols.taluka < 0:
				cols.taluka = j
			case strings.Contains(c, "village") && cols.village < 0:
				cols.village = j
			case (strings.Contains(c, "referral") || strings.Contains(c, "code")) && cols.referral < 0:
				cols.referral = j
			}
		}
		if cols.district >= 0 && cols.village >= 0 {
			return i, cols, true
		}
	}
	return -1, dashboardColumns{}, false
}

func cellAt(row []string, j int) string {
	if j < 0 || j >= len(row) {
		return ""
	}
	return NormalizeValue(row[j])
}

// applyDashboard resolves the global location of an import from sheet 0 and
// updates the village referral code when one is given. Any failure is fatal.
func (run *importRun) applyDashboard(ctx context.Context, sheet Sheet) (*models.Location, error) {
	headerIdx, cols, ok := findDashboardHeader(sheet.Rows)
	if !ok {
		return nil, apperr.Newf(apperr.KindDashboard, "Dashboard sheet '%s' has no header with District and Village in its first %d rows.", sheet.Name, dashboardScanRows)
	}

	var district, taluka, village, referral string
	found := false
	for _, row := range sheet.Rows[headerIdx+1:] {
		district, taluka, village = cellAt(row, cols.district), cellAt(row, cols.taluka), cellAt(row, cols.village)
		referral = cellAt(row, cols.referral)
		if district != "" || taluka != "" || village != "" || referral != "" {
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.Newf(apperr.KindDashboard, "Dashboard sheet '%s' has no location row.", sheet.Name)
	}

	loc, err := NewLocationResolver(run.locations).Resolve(ctx, district, taluka, village)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindDashboard, "Dashboard location could not be resolved")
	}

	if referral != "" {
		if err := run.locations.UpdateVillageReferralCode(ctx, loc.Village.ID, referral); err != nil {
			return nil, apperr.Wrap(err, apperr.KindDashboard, "failed to update village referral code")
		}
		loc.Village.ReferralCode = &referral
	}

	run.log.Info("dashboard location resolved",
		"district", loc.District.Name, "taluka", loc.Taluka.Name, "village", loc.Village.Name)
	return loc, nil
}
