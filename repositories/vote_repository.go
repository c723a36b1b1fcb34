package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/polemika/polemika/models"
)

// VoteRepository maintains the one-row-per-(target,user) ledger together
// with the denormalized counters on the target. Apply performs the whole
// read-decide-write transition as a single transaction so no reader ever
// sees a counter without its ledger row.
type VoteRepository interface {
	Apply(ctx context.Context, kind models.TargetKind, targetID, userID uint, voteType models.VoteType) (*models.VoteResult, error)
	Find(ctx context.Context, kind models.TargetKind, targetID, userID uint) (*models.Vote, error)
}

type gormVoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a MySQL-backed VoteRepository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &gormVoteRepository{db: db}
}

func (r *gormVoteRepository) Find(ctx context.Context, kind models.TargetKind, targetID, userID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ? AND user_id = ?", kind, targetID, userID).
		First(&vote).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &vote, nil
}

// Apply runs the vote state machine inside one transaction:
// no existing vote -> insert + counter+1; same type -> delete + counter-1;
// different type -> update + old-1/new+1. The row lock on the existing vote
// serializes concurrent casts by the same user; the unique ledger index
// catches the both-saw-nothing race and surfaces it as ErrDuplicateVote.
func (r *gormVoteRepository) Apply(ctx context.Context, kind models.TargetKind, targetID, userID uint, voteType models.VoteType) (*models.VoteResult, error) {
	var result models.VoteResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("target_kind = ? AND target_id = ? AND user_id = ?", kind, targetID, userID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{TargetKind: kind, TargetID: targetID, UserID: userID, Type: voteType}
			if err := tx.Create(&vote).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrDuplicateVote
				}
				return err
			}
			if err := r.adjustCounter(tx, kind, targetID, voteType, 1); err != nil {
				return err
			}
			result = models.VoteResult{Action: models.VoteAdded, Type: voteType}

		case err != nil:
			return err

		case existing.Type == voteType:
			// Toggle-off: same direction twice cancels the vote.
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return err
			}
			if err := r.adjustCounter(tx, kind, targetID, voteType, -1); err != nil {
				return err
			}
			result = models.VoteResult{Action: models.VoteRemoved, Type: voteType}

		default:
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).
				UpdateColumn("type", voteType).Error; err != nil {
				return err
			}
			if err := r.adjustCounter(tx, kind, targetID, existing.Type, -1); err != nil {
				return err
			}
			if err := r.adjustCounter(tx, kind, targetID, voteType, 1); err != nil {
				return err
			}
			result = models.VoteResult{Action: models.VoteChanged, From: existing.Type, To: voteType}
		}

		counters, err := r.readCounters(tx, kind, targetID)
		if err != nil {
			return err
		}
		result.Votes = counters
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// adjustCounter bumps the up or down tally on the target row. Zero rows
// affected means the target does not exist and the transaction rolls back.
func (r *gormVoteRepository) adjustCounter(tx *gorm.DB, kind models.TargetKind, targetID uint, voteType models.VoteType, delta int) error {
	column := "up_votes"
	if voteType == models.VoteDown {
		column = "down_votes"
	}
	res := tx.Model(targetModel(kind)).Where("id = ?", targetID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormVoteRepository) readCounters(tx *gorm.DB, kind models.TargetKind, targetID uint) (models.VoteCounters, error) {
	var counters models.VoteCounters
	err := tx.Model(targetModel(kind)).
		Select("up_votes", "down_votes").
		Where("id = ?", targetID).
		Take(&counters).Error
	if err != nil {
		return counters, translateNotFound(err)
	}
	return counters, nil
}

func targetModel(kind models.TargetKind) interface{} {
	if kind == models.TargetComment {
		return &models.Comment{}
	}
	return &models.Post{}
}
