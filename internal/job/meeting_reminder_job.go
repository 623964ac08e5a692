package job

import (
	"Milestone/internal/pkg/consts"
	"Milestone/internal/pkg/redis"
	"Milestone/internal/repository"
	"Milestone/internal/service"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// reminderWindow 提前量：开始前 15 分钟内的会议触发提醒
const reminderWindow = 15 * time.Minute

// MeetingReminderJob 扫描即将开始且未提醒的会议，向与会人发送提醒。
// 多实例部署时用分布式锁保证同一轮只有一个实例执行。
type MeetingReminderJob struct {
	meetingRepo repository.MeetingRepo
	notify      service.NotifyService
}

func NewMeetingReminderJob(meetingRepo repository.MeetingRepo, notify service.NotifyService) *MeetingReminderJob {
	return &MeetingReminderJob{
		meetingRepo: meetingRepo,
		notify:      notify,
	}
}

func (s *MeetingReminderJob) Run() {
	ctx := context.Background()

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.MeetingReminderLock, lockValue, time.Minute, 1)
	if err != nil {
		log.Error("抢占会议提醒锁失败", "err", err)
		return
	}
	if !locked {
		return
	}
	defer redis.UnLock(ctx, consts.MeetingReminderLock, lockValue)

	now := time.Now()
	meetings, err := s.meetingRepo.ListStartingBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		log.Error("查询待提醒会议失败", "err", err)
		return
	}
	if len(meetings) == 0 {
		return
	}

	remindedIDs := make([]uint64, 0, len(meetings))
	for _, meeting := range meetings {
		subject := fmt.Sprintf("会议提醒：%s", meeting.Title)
		content := fmt.Sprintf("会议「%s」将于 %s 开始", meeting.Title, meeting.StartAt.Format("15:04"))
		for _, attendee := range meeting.Attendees {
			s.notify.NotifyUser(ctx, attendee.UserID, subject, content)
		}
		remindedIDs = append(remindedIDs, meeting.ID)
	}

	if err = s.meetingRepo.MarkReminded(ctx, remindedIDs); err != nil {
		log.Error("标记会议已提醒失败", "err", err)
		return
	}
	log.Info("会议提醒完成", "count", len(remindedIDs))
}
