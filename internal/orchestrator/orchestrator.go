// Package orchestrator sequences the destination-facing work for one
// meeting event: route resolution, comment posting, action-item
// extraction, and task creation, with per-stage failure isolation.
package orchestrator

import (
	"context"

	"github.com/hemal8976/personal-webhook/internal/clickup"
	"github.com/hemal8976/personal-webhook/internal/common/config"
	"github.com/hemal8976/personal-webhook/internal/common/errors"
	"github.com/hemal8976/personal-webhook/internal/common/logger"
	"github.com/hemal8976/personal-webhook/internal/common/metrics"
	"github.com/hemal8976/personal-webhook/internal/format"
	"github.com/hemal8976/personal-webhook/internal/gemini"
	"github.com/hemal8976/personal-webhook/internal/meeting"
	"github.com/hemal8976/personal-webhook/internal/routing"
)

// CommentPoster posts a rich-text comment and returns its id.
type CommentPoster interface {
	PostComment(ctx context.Context, token, listID string, blocks []clickup.CommentBlock, notifyAll bool) (string, error)
}

// TaskCreator creates a task or subtask and returns its id.
type TaskCreator interface {
	CreateTask(ctx context.Context, token, listID string, task clickup.TaskRequest) (string, error)
}

// Extractor turns a transcript into candidate action items.
type Extractor interface {
	Configured() bool
	ExtractActionItems(ctx context.Context, title string, participants []string, transcript string) (*gemini.Extraction, error)
}

// Result is the aggregate outcome reported to the webhook caller. Counts
// are always populated, even when a stage was skipped or failed.
type Result struct {
	RouteMatched    bool     `json:"routeMatched"`
	RouteName       string   `json:"routeName,omitempty"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`

	CommentPosted bool   `json:"commentPosted"`
	CommentID     string `json:"commentId,omitempty"`

	ExtractedCount   int    `json:"extractedCount"`
	ParentTaskID     string `json:"parentTaskId,omitempty"`
	EligibleSubtasks int    `json:"eligibleSubtasks"`
	CreatedSubtasks  int    `json:"createdSubtasks"`
}

type Orchestrator struct {
	resolver  *routing.Resolver
	chain     *routing.Chain
	comments  CommentPoster
	tasks     TaskCreator
	extractor Extractor
	logger    logger.Logger

	notifyAll bool
	descLimit int
}

type Options struct {
	Config    *config.Config
	Resolver  *routing.Resolver
	Chain     *routing.Chain
	Comments  CommentPoster
	Tasks     TaskCreator
	Extractor Extractor
	Logger    logger.Logger
}

func New(opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	return &Orchestrator{
		resolver:  opts.Resolver,
		chain:     opts.Chain,
		comments:  opts.Comments,
		tasks:     opts.Tasks,
		extractor: opts.Extractor,
		logger:    log,
		notifyAll: opts.Config.ClickUp.NotifyAll,
		descLimit: opts.Config.ClickUp.DescriptionCharLimit,
	}
}

// Process runs the full pipeline for one event. The returned error is
// non-nil only for request-aborting failures: a missing mandatory
// credential or a failed comment post. Everything downstream of a
// successful comment post is best-effort; its failures are logged,
// counted, and reflected as zero contributions in the Result.
func (o *Orchestrator) Process(ctx context.Context, ev *meeting.Event) (*Result, error) {
	result := &Result{}

	// Stage 1: route resolution. An unmatched event is a normal outcome,
	// not an error; no destination-facing work happens for it.
	route, ok := o.resolver.Resolve(ev)
	if !ok {
		return result, nil
	}
	result.RouteMatched = true
	result.RouteName = route.Name
	result.MatchedKeywords = route.MatchedKeywords

	log := o.logger.WithFields(map[string]interface{}{
		"route":   route.Name,
		"meeting": ev.Title,
	})

	token, err := o.chain.Token(route)
	if err != nil {
		log.Error("No destination token available", map[string]interface{}{
			"listId": route.ListID,
		})
		return result, err
	}

	// Stage 2: comment post; the only mandatory side effect. Failure
	// aborts the whole request.
	blocks := format.MarkdownToBlocks(format.CommentBody(ev))
	commentID, err := o.comments.PostComment(ctx, token, route.ListID, blocks, o.notifyAll)
	if err != nil {
		log.WithError(err).Error("Comment post failed, aborting event", map[string]interface{}{
			"listId": route.ListID,
		})
		return result, errors.NewCommentPostError(route.Name, err)
	}
	result.CommentPosted = true
	result.CommentID = commentID
	metrics.CommentsPosted.WithLabelValues(route.Name).Inc()
	log.Info("Comment posted", map[string]interface{}{
		"listId":    route.ListID,
		"commentId": commentID,
	})

	// Stage 3: extraction; skipped without credential or transcript,
	// isolated on failure.
	extraction := o.runExtraction(ctx, ev, log)
	if extraction == nil || len(extraction.Items) == 0 {
		return result, nil
	}
	result.ExtractedCount = len(extraction.Items)

	// Stage 4: task creation; skipped when disabled or no list resolves,
	// isolated on failure.
	o.runTaskCreation(ctx, ev, route, token, extraction.Items, result, log)

	return result, nil
}

func (o *Orchestrator) runExtraction(ctx context.Context, ev *meeting.Event, log logger.Logger) *gemini.Extraction {
	if o.extractor == nil || !o.extractor.Configured() {
		log.Info("Extraction skipped: no credential configured", nil)
		return nil
	}
	if !ev.HasTranscript() {
		log.Info("Extraction skipped: no transcript text", nil)
		return nil
	}

	extraction, err := o.extractor.ExtractActionItems(ctx, ev.Title, ev.ParticipantNames(), ev.TranscriptText())
	if err != nil {
		stdErr := errors.NewExtractionError(err)
		metrics.StageFailures.WithLabelValues("extraction").Inc()
		log.WithError(err).Error(stdErr.Message, nil)
		return nil
	}
	return extraction
}

func (o *Orchestrator) runTaskCreation(ctx context.Context, ev *meeting.Event, route *routing.ResolvedRoute, token string, items []gemini.ActionItem, result *Result, log logger.Logger) {
	if !o.chain.TaskCreationEnabled(route) {
		log.Info("Task creation disabled for route", nil)
		return
	}

	listID, ok := o.chain.TaskListID(route)
	if !ok {
		log.Info("Task creation skipped: no target list resolves", nil)
		return
	}

	// All extracted items are offered as subtask candidates. The resolved
	// threshold is reported for visibility only.
	threshold := o.chain.ConfidenceThreshold(route)
	below := 0
	for _, item := range items {
		if item.Confidence < threshold {
			below++
		}
	}
	result.EligibleSubtasks = len(items)

	log = log.WithFields(map[string]interface{}{"listId": listID})
	log.Info("Creating meeting tasks", map[string]interface{}{
		"items":               len(items),
		"confidenceThreshold": threshold,
		"belowThreshold":      below,
	})

	assignees := o.chain.Assignees(route)
	status := o.chain.Status(route)

	parentID, err := o.tasks.CreateTask(ctx, token, listID, clickup.TaskRequest{
		Name:        format.ParentTaskName(ev),
		Description: format.ParentTaskDescription(ev, len(items), o.descLimit),
		Assignees:   assignees,
		Status:      status,
	})
	if err != nil {
		stdErr := errors.NewTaskCreateError(listID, err)
		metrics.StageFailures.WithLabelValues("parent_task").Inc()
		log.WithError(err).Error(stdErr.Message, map[string]interface{}{
			"kind": "parent",
		})
		return
	}
	result.ParentTaskID = parentID
	metrics.TasksCreated.WithLabelValues("parent").Inc()

	// Subtasks are attempted sequentially and independently; one failure
	// never stops the remaining items.
	for i, item := range items {
		subtaskID, err := o.tasks.CreateTask(ctx, token, listID, clickup.TaskRequest{
			Name:        item.Task,
			Description: format.SubtaskDescription(item),
			Assignees:   assignees,
			Status:      status,
			Parent:      parentID,
		})
		if err != nil {
			stdErr := errors.NewTaskCreateError(listID, err)
			metrics.StageFailures.WithLabelValues("subtask").Inc()
			log.WithError(err).Error(stdErr.Message, map[string]interface{}{
				"kind":  "subtask",
				"index": i,
				"task":  item.Task,
			})
			continue
		}
		result.CreatedSubtasks++
		metrics.TasksCreated.WithLabelValues("subtask").Inc()
		log.Debug("Subtask created", map[string]interface{}{
			"index":     i,
			"subtaskId": subtaskID,
		})
	}
}
