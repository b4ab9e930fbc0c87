package maec

// BehaviorVocab names the specific purposes behind snippets of malware code.
// This is the largest MAEC vocabulary; producers routinely extend it, so
// like every open vocabulary unknown values are carried as extensions.
var BehaviorVocab = NewVocabSet("behavior-ov",
	// anti-behavioral-analysis
	"anti-debugging", "anti-emulation", "anti-memory-forensics",
	"anti-sandbox", "anti-vm", "detect-debugging", "detect-emulator",
	"detect-sandbox-environment", "detect-vm-environment",
	"overload-sandbox", "prevent-debugging", "prevent-memory-dump",

	// anti-code-analysis
	"anti-disassembly", "code-obfuscation", "control-flow-obfuscation",
	"data-obfuscation", "dynamic-code-loading", "encrypt-code",
	"import-obfuscation", "pack-code", "string-obfuscation",

	// anti-detection
	"anti-virus-evasion", "bypass-application-whitelisting",
	"clean-traces-of-infection", "code-signing-abuse",
	"disable-security-tools", "execute-stealthy-code",
	"hide-arbitrary-virtual-memory", "hide-code-in-file",
	"hide-file-system-artifacts", "hide-kernel-modules",
	"hide-network-traffic", "hide-non-volatile-data",
	"hide-open-network-ports", "hide-processes", "hide-registry-artifacts",
	"hide-services", "hide-threads", "hide-userspace-libraries",
	"hide-windows", "hijack-system-utilities", "masquerade-as-legitimate",
	"obfuscate-artifact-properties", "prevent-security-software-execution",
	"remove-system-artifacts", "security-software-evasion",
	"timestomp-files",

	// anti-removal
	"prevent-file-access", "prevent-file-deletion",
	"prevent-process-termination", "prevent-registry-access",
	"prevent-registry-deletion", "re-infect-after-removal",

	// availability-violation
	"compromise-data-availability", "consume-system-resources",
	"crack-passwords", "cryptocurrency-mining", "denial-of-service",
	"encrypt-files-for-ransom", "lock-screen-for-ransom",
	"participate-in-ddos",

	// collection
	"capture-camera-input", "capture-clipboard-data",
	"capture-file-system-data", "capture-gps-data",
	"capture-keyboard-input", "capture-microphone-input",
	"capture-mouse-input", "capture-printer-output",
	"capture-system-memory", "capture-system-network-traffic",
	"capture-system-screenshot", "capture-touchscreen-input",
	"collect-browser-history", "collect-email-data", "collect-sms-data",

	// command-and-control
	"check-for-payload", "control-malware-via-remote-command",
	"determine-c2-server", "generate-c2-domain-names",
	"receive-data-from-c2-server", "send-beacon-to-c2-server",
	"send-data-to-c2-server", "send-heartbeat-data",
	"update-configuration", "validate-data",

	// data-theft
	"exfiltrate-via-covert-channel", "exfiltrate-via-dumpster-dive",
	"exfiltrate-via-fax", "exfiltrate-via-network",
	"exfiltrate-via-physical-media", "exfiltrate-via-voip-phone",
	"steal-authentication-credentials", "steal-browser-cache",
	"steal-contact-list-data", "steal-cryptocurrency-data",
	"steal-database-content", "steal-dialed-phone-numbers",
	"steal-documents", "steal-email-data", "steal-images",
	"steal-make-files-public", "steal-network-address",
	"steal-password-hashes", "steal-pki-certificates", "steal-pki-keys",
	"steal-referrer-urls", "steal-serial-numbers", "steal-sms-database",
	"steal-web-session-cookies",

	// destruction
	"compromise-data-integrity", "destroy-firmware", "destroy-hardware",
	"erase-data", "wipe-disk-contents", "wipe-master-boot-record",

	// discovery
	"check-for-firmware-version", "check-language",
	"enumerate-accounts", "enumerate-application-windows",
	"enumerate-drivers", "enumerate-file-system",
	"enumerate-installed-software", "enumerate-network-connections",
	"enumerate-network-shares", "enumerate-processes",
	"enumerate-registry", "enumerate-security-products",
	"enumerate-services", "enumerate-threads",
	"fingerprint-host", "identify-file", "identify-os",
	"inventory-system-information", "map-local-network",
	"probe-host-configuration", "scan-for-vulnerabilities",

	// exfiltration (protocol-specific)
	"exfiltrate-via-dns", "exfiltrate-via-email", "exfiltrate-via-ftp",
	"exfiltrate-via-http", "exfiltrate-via-https", "exfiltrate-via-icmp",
	"exfiltrate-via-irc", "exfiltrate-via-p2p",

	// fraud
	"access-premium-service", "click-fraud", "generate-fraudulent-clicks",
	"generate-premium-sms-messages", "manipulate-advertisements",
	"perform-bitcoin-fraud", "perform-click-jacking",

	// infection-propagation
	"autonomous-remote-infection", "boot-sector-infection",
	"drop-retrieve-additional-malware", "identify-target-machines",
	"infect-downloaded-files", "infect-files", "infect-remote-machine",
	"infect-removable-media", "local-remote-host-infection",
	"modify-file", "propagate-via-email", "propagate-via-instant-messaging",
	"propagate-via-network-shares", "propagate-via-p2p",
	"propagate-via-sms", "spread-to-mobile-device",

	// integrity-violation
	"annoy-local-system-user", "compare-host-fingerprints",
	"corrupt-system-data", "install-rogue-certificate",
	"intercept-manipulate-network-traffic", "manipulate-file-system-data",
	"modify-boot-configuration", "patch-operating-system-file",
	"subvert-system-integrity", "tamper-with-security-settings",

	// machine-access-control
	"compromise-access-to-information-assets", "control-local-machine",
	"install-backdoor", "install-remote-access-tool",
	"limit-application-type-version", "open-remote-shell",
	"receive-commands-via-backdoor",

	// persistence
	"drop-launch-secondary-malware", "ensure-compatibility",
	"install-bootkit", "install-browser-helper-object",
	"install-legitimate-software", "install-library",
	"install-rootkit", "persist-after-hardware-changes",
	"persist-after-os-install", "persist-via-created-account",
	"persist-via-registry", "persist-via-scheduled-task",
	"persist-via-service", "persist-via-startup-folder",
	"reboot-restart-machine", "remove-self",

	// privilege-escalation
	"elevate-cpu-mode", "escalate-user-privilege",
	"exploit-kernel-vulnerability", "exploit-local-vulnerability",
	"impersonate-user",

	// secondary-operation
	"check-for-updates", "log-activity", "patch-self",
	"suicide-exit", "update-self",

	// security-degradation
	"degrade-security-programs", "disable-access-rights",
	"disable-firewall", "disable-kernel-patch-protection",
	"disable-os-security-alerts", "disable-os-updates",
	"disable-service-pack-patch-installation", "disable-system-file-overwrite-protection",
	"disable-user-account-control", "modify-security-policy",
	"stop-execution-of-security-programs",

	// spying
	"capture-system-state-data", "eavesdrop-on-phone-calls",
	"monitor-user-activity", "spy-on-user", "track-device-location",
)
