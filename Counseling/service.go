package Counseling

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"Pulse/Bitrix"
	"Pulse/Models"
	"Pulse/OpenAi"
	"Pulse/Trello"
	"Pulse/Workload"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatCompleter is the slice of the OpenAI gateway the workflow needs.
type ChatCompleter interface {
	ChatCompletion(model string, messages []OpenAi.ChatMessage) (string, error)
}

// WorkloadLookup answers staffing availability questions.
type WorkloadLookup interface {
	GetUsersWorkloads(filter Workload.Filter) ([]Workload.UserWorkloadInfo, error)
	GetProfiles() ([]string, error)
}

// CardCommenter posts comments on Trello cards.
type CardCommenter interface {
	CreateCardComment(cardID, text string) error
}

// TimelineCommenter posts comments on CRM entity timelines.
type TimelineCommenter interface {
	Add(entityID, entityTypeID int, comment string) error
}

// DealLister reads CRM deals.
type DealLister interface {
	List(filter map[string]interface{}, sel []string) ([]Bitrix.Deal, error)
}

// UserGetter resolves portal users, used to name the manager of a lost deal.
type UserGetter interface {
	Get(id string) (*Bitrix.User, error)
}

// RetryPolicy bounds the re-asks when the model returns something that does
// not parse as the expected JSON array.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// otherProfile is the catch-all directory profile never offered to the model.
const otherProfile = "Прочее"

// Service turns a free-text vacancy description into a staffing
// recommendation comment on a Trello card or a CRM timeline. The workflow is
// best effort: a model that never answers usable JSON aborts the run silently
// instead of surfacing an error to the requester.
type Service struct {
	Trello          CardCommenter
	OpenAi          ChatCompleter
	Workload        WorkloadLookup
	Deals           DealLister
	Users           UserGetter
	Timeline        TimelineCommenter
	Retry           RetryPolicy
	DB              *gorm.DB
	SpreadsheetLink string
}

// NewService wires the workflow. The HR webhook scope serves deal and user
// lookups, the my_crm scope serves timeline writes.
func NewService(
	trelloApi *Trello.Api,
	openAiClient *OpenAi.Client,
	workloadService *Workload.Service,
	factory *Bitrix.ClientFactory,
	db *gorm.DB,
	spreadsheetLink string,
) (*Service, error) {
	hrClient, err := factory.ClientFor(Bitrix.ScopeHR)
	if err != nil {
		return nil, err
	}

	crmClient, err := factory.ClientFor(Bitrix.ScopeMyCRM)
	if err != nil {
		return nil, err
	}

	return &Service{
		Trello:          trelloApi,
		OpenAi:          openAiClient,
		Workload:        workloadService,
		Deals:           Bitrix.NewDealApi(hrClient),
		Users:           Bitrix.NewUserApi(hrClient),
		Timeline:        Bitrix.NewTimelineCommentApi(crmClient),
		Retry:           RetryPolicy{MaxAttempts: 2, Backoff: 2 * time.Second},
		DB:              db,
		SpreadsheetLink: spreadsheetLink,
	}, nil
}

// SendStaffRecommendationsToTrello posts the recommendation as a card
// comment. An unusable model reply ends the run with no comment at all.
func (s *Service) SendStaffRecommendationsToTrello(card Trello.Card) error {
	pairs, raw, err := s.getGptResponse(card.Desc)
	if err != nil {
		return err
	}
	if pairs == nil {
		return nil
	}

	comment := s.buildComment(pairs)

	if err := s.Trello.CreateCardComment(card.ID, comment); err != nil {
		return fmt.Errorf("error posting trello comment: %v", err)
	}

	s.logRun("trello", card.ID, card.Desc, raw, comment)

	return nil
}

// SendStaffRecommendationsToBitrix posts the recommendation as a timeline
// comment on the CRM entity.
func (s *Service) SendStaffRecommendationsToBitrix(entityID, entityTypeID int, description string) error {
	pairs, raw, err := s.getGptResponse(description)
	if err != nil {
		return err
	}
	if pairs == nil {
		return nil
	}

	comment := s.buildComment(pairs)

	if err := s.Timeline.Add(entityID, entityTypeID, comment); err != nil {
		return fmt.Errorf("error posting timeline comment: %v", err)
	}

	s.logRun("bitrix", fmt.Sprintf("%d:%d", entityID, entityTypeID), description, raw, comment)

	return nil
}

func (s *Service) buildComment(pairs []map[string]string) string {
	workloadText := s.buildWorkloadText(pairs)
	failedDealsText := s.buildFailedDealsText(pairs)

	if failedDealsText == "" {
		return workloadText
	}

	return workloadText + "\n\n" + failedDealsText
}

// getGptResponse asks the model to map the vacancy description onto
// grade/stack pairs. A reply that does not parse as JSON is re-asked per the
// retry policy; when every attempt fails the run is abandoned (nil pairs, nil
// error) and only logged.
func (s *Service) getGptResponse(description string) ([]map[string]string, []byte, error) {
	if description == "" {
		return nil, nil, errors.New("empty vacancy description")
	}

	profiles, err := s.Workload.GetProfiles()
	if err != nil {
		log.Printf("Error loading profiles: %v", err)
		return nil, nil, nil
	}

	offered := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		if profile != otherProfile {
			offered = append(offered, profile)
		}
	}

	prompt := fmt.Sprintf(
		"Определи по описанию вакансии, какие специалисты требуются. "+
			"Ответ верни строго в виде JSON-массива объектов вида {\"грейд\": \"стек\"}, без пояснений. "+
			"Возможные грейды: %s. Возможные стеки: %s. Описание вакансии: %s",
		strings.Join(Models.BasicGrades(), ", "),
		strings.Join(offered, ", "),
		description,
	)

	messages := []OpenAi.ChatMessage{OpenAi.NewUserMessage(prompt)}

	attempts := s.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		response, err := s.OpenAi.ChatCompletion(OpenAi.ModelChat, messages)
		if err != nil {
			log.Printf("Error from OpenAI: %v", err)
			return nil, nil, nil
		}

		var pairs []map[string]string
		if err := json.Unmarshal([]byte(response), &pairs); err == nil && len(pairs) > 0 {
			log.Printf("Counseling: got gpt response: %s", response)
			return pairs, []byte(response), nil
		}

		log.Printf("Counseling: unusable gpt response on attempt %d: %s", attempt, response)

		if attempt < attempts && s.Retry.Backoff > 0 {
			time.Sleep(s.Retry.Backoff)
		}
	}

	return nil, nil, nil
}

// buildWorkloadText renders the profile summary block and the matching staff
// block. Errors during the lookups are logged and whatever was built so far
// is kept; the caller still posts a comment.
func (s *Service) buildWorkloadText(pairs []map[string]string) string {
	var userWorkloads []Workload.UserWorkloadInfo
	var stackOrder []string
	stackGrades := make(map[string][]string)

	for _, pair := range pairs {
		for grade, stack := range pair {
			infos, err := s.Workload.GetUsersWorkloads(Workload.Filter{
				Profile:    stack,
				Grade:      grade,
				OnlyMarked: true,
			})
			if err != nil {
				log.Printf("Error querying workloads for %s/%s: %v", stack, grade, err)
				continue
			}
			userWorkloads = append(userWorkloads, infos...)

			if _, seen := stackGrades[stack]; !seen {
				stackOrder = append(stackOrder, stack)
			}
			stackGrades[stack] = append(stackGrades[stack], grade)
		}
	}

	var profilesText strings.Builder
	for _, stack := range stackOrder {
		grades := stackGrades[stack]
		if len(grades) == len(Models.BasicGrades()) {
			profilesText.WriteString(fmt.Sprintf("- %s (любого уровня)\n", stack))
		} else {
			profilesText.WriteString(fmt.Sprintf("- %s (%s)\n", stack, strings.Join(grades, ", ")))
		}

		// Nothing matched with the grade filters: re-ask for the stack at
		// any grade.
		if len(userWorkloads) == 0 {
			infos, err := s.Workload.GetUsersWorkloads(Workload.Filter{
				Profile:    stack,
				OnlyMarked: true,
			})
			if err != nil {
				log.Printf("Error querying broadened workloads for %s: %v", stack, err)
				continue
			}
			userWorkloads = append(userWorkloads, infos...)
		}
	}

	header := ""
	if profilesText.Len() > 0 {
		header = "Из Вашего запроса были определены следующие профили кандидатов: \n" +
			profilesText.String() + "\n"
	}

	var candidates strings.Builder
	for _, workload := range userWorkloads {
		user := workload.User
		candidates.WriteString(fmt.Sprintf("- %s %s, %s", user.GivenName, user.FamilyName, user.Profile))
		if user.Grade != "" {
			candidates.WriteString(fmt.Sprintf("(%s)", user.Grade))
		}
		if workload.PerHourPay > 0 {
			candidates.WriteString(fmt.Sprintf(", ставка %v", workload.PerHourPay))
		}
		if user.Resume != "" {
			candidates.WriteString(fmt.Sprintf(", ссылка на резюме: %s", user.Resume))
		}
		candidates.WriteString("\n")
	}

	var text string
	if candidates.Len() > 0 {
		text = header + "В пристрое (" + s.SpreadsheetLink + ") найдены следующие кандидаты: \n" + candidates.String()
	} else {
		text = header + "В пристрое (" + s.SpreadsheetLink + ") сотрудники по данным профилям не найдены."
	}

	log.Printf("Counseling: built workload text:\n%s", text)

	return strings.TrimSpace(text)
}

// buildFailedDealsText lists candidates that surfaced in lost deals matching
// the requested stacks. Failures here only cost the block, never the comment.
func (s *Service) buildFailedDealsText(pairs []map[string]string) string {
	if s.Deals == nil {
		return ""
	}

	deals, err := s.Deals.List(
		map[string]interface{}{"STAGE_ID": "LOSE"},
		[]string{"ID", "TITLE", "COMMENTS", "ASSIGNED_BY_ID"},
	)
	if err != nil {
		log.Printf("Error listing failed deals: %v", err)
		return ""
	}

	stacks := make(map[string]bool)
	for _, pair := range pairs {
		for _, stack := range pair {
			stacks[strings.ToLower(stack)] = true
		}
	}

	var lines strings.Builder
	for _, deal := range deals {
		title := strings.ToLower(deal.Title)
		for stack := range stacks {
			if strings.Contains(title, stack) {
				lines.WriteString("- " + deal.Title)
				if manager := s.dealManagerName(deal.AssignedB); manager != "" {
					lines.WriteString(fmt.Sprintf(" (ответственный: %s)", manager))
				}
				lines.WriteString("\n")
				break
			}
		}
	}

	if lines.Len() == 0 {
		return ""
	}

	return strings.TrimSpace("По проваленным сделкам найдены следующие кандидаты: \n" + lines.String())
}

func (s *Service) dealManagerName(userID string) string {
	if s.Users == nil || userID == "" {
		return ""
	}

	user, err := s.Users.Get(userID)
	if err != nil {
		log.Printf("Error resolving deal manager %s: %v", userID, err)
		return ""
	}

	return strings.TrimSpace(user.Name + " " + user.LastName)
}

func (s *Service) logRun(channel, targetID, description string, raw []byte, comment string) {
	if s.DB == nil {
		return
	}

	entry := Models.CounselingLog{
		Channel:     channel,
		TargetID:    targetID,
		Description: description,
		RawResponse: datatypes.JSON(raw),
		Comment:     comment,
	}

	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("Error saving counseling log: %v", err)
	}
}
