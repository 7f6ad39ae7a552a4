package services

import (
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/schedule"
	"github.com/gfmachado/autorevenda/pkg/storage"
)

// ImageReconciler deletes files that no veiculo_imagens row references.
// Uploads that never reached commit, and unlink failures from the
// best-effort cleanup after image swaps, both leave such orphans behind.
type ImageReconciler struct {
	disk     storage.Disk
	vehicles *repositories.VehicleRepository
}

func NewImageReconciler(disk storage.Disk, vehicles *repositories.VehicleRepository) *ImageReconciler {
	return &ImageReconciler{disk: disk, vehicles: vehicles}
}

// Register schedules the nightly sweep.
func (s *ImageReconciler) Register() {
	schedule.Cron("0 3 * * *").
		Name("imagens.orfas").
		WithoutOverlapping().
		Run(func() { s.Sweep() })
}

// Sweep walks the disk and removes every file unknown to the database.
// Returns how many files were deleted.
func (s *ImageReconciler) Sweep() int {
	known, err := s.vehicles.AllImageFilenames()
	if err != nil {
		logger.Error("reconciler: listing image rows failed", "error", err)
		return 0
	}

	files, err := s.disk.AllFiles("")
	if err != nil {
		logger.Error("reconciler: listing disk failed", "error", err)
		return 0
	}

	deleted := 0
	for _, file := range files {
		if known[file] {
			continue
		}
		if err := s.disk.Delete(file); err != nil {
			logger.Warn("reconciler: delete failed", "file", file, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		logger.Info("reconciler: removed orphaned images", "count", deleted)
	}
	return deleted
}
