package emailsvc

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	// SentMessages keeps all messages sent via consoleService in TestMode.
	SentMessages []core.EmailMessage
	mutex        sync.Mutex
)

type consoleService struct {
	conf *core.Config
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) *consoleService {
	return &consoleService{conf: conf}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	wg := new(sync.WaitGroup)
	for _, msg := range messages {
		wg.Add(1)
		go svc.send(msg, wg)
	}
	wg.Wait()
}

func (svc *consoleService) send(msg *core.EmailMessage, wg *sync.WaitGroup) {
	defer wg.Done()

	if !msg.HasRecipients() {
		return
	}

	if svc.conf.TestMode {
		mutex.Lock()
		SentMessages = append(SentMessages, *msg)
		mutex.Unlock()
		return
	}

	from := svc.conf.DefaultFromEmail
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, addr.String())
	}

	sb := new(strings.Builder)
	sb.WriteString(fmt.Sprintf("From: %s\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\n", strings.Join(to, ", ")))
	sb.WriteString(fmt.Sprintf("Date: %s\n", time.Now().Format(time.RFC1123Z)))
	sb.WriteString(fmt.Sprintf("Subject: %s\n\n", msg.Subject))
	sb.WriteString(msg.Body)
	sb.WriteString("\n" + strings.Repeat("-", 79) + "\n")
	fmt.Println(sb.String())
}
